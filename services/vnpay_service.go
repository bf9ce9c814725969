package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/minhanh-dev/restaurant-pos-api/config"
)

// VNPayService builds outbound payment redirect URLs and verifies return
// callbacks. The signature is an HMAC-SHA512 over the canonically sorted,
// URL-encoded parameter string; field names, sort order and encoding are
// fixed by the gateway and must not change.
type VNPayService struct {
	tmnCode    string
	hashSecret string
	payURL     string
	returnURL  string
}

// NewVNPayService creates a VNPay service from configuration
func NewVNPayService(cfg *config.Config) *VNPayService {
	return &VNPayService{
		tmnCode:    cfg.VNPayTmnCode,
		hashSecret: cfg.VNPayHashSecret,
		payURL:     cfg.VNPayURL,
		returnURL:  cfg.VNPayReturnURL,
	}
}

// BuildPaymentURL constructs the redirect URL for paying an order.
// amount is in VND; VNPay expects it multiplied by 100.
func (s *VNPayService) BuildPaymentURL(txnRef string, amount float64, orderInfo, clientIP string, createdAt time.Time) string {
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", s.tmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(int64(amount*100), 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", txnRef)
	params.Set("vnp_OrderInfo", orderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", s.returnURL)
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_CreateDate", createdAt.Format("20060102150405"))

	signed := s.sign(params)
	return fmt.Sprintf("%s?%s&vnp_SecureHash=%s", s.payURL, params.Encode(), signed)
}

// VerifyReturn checks the signature of an inbound return callback. The
// hash fields themselves are excluded from the signed string.
func (s *VNPayService) VerifyReturn(query url.Values) bool {
	received := query.Get("vnp_SecureHash")
	if received == "" {
		return false
	}

	params := url.Values{}
	for key, values := range query {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		for _, v := range values {
			params.Add(key, v)
		}
	}

	expected := s.sign(params)
	return hmac.Equal([]byte(expected), []byte(received))
}

// sign computes the hex HMAC-SHA512 of the sorted, URL-encoded params.
// url.Values.Encode sorts by key, which is exactly the gateway's
// canonical ordering.
func (s *VNPayService) sign(params url.Values) string {
	mac := hmac.New(sha512.New, []byte(s.hashSecret))
	mac.Write([]byte(params.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}
