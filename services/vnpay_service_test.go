package services

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/stretchr/testify/assert"
)

func testVNPayService() *VNPayService {
	return NewVNPayService(&config.Config{
		VNPayTmnCode:    "TESTCODE",
		VNPayHashSecret: "testsecret",
		VNPayURL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		VNPayReturnURL:  "http://localhost:8080/api/v1/payment/vnpay-return",
	})
}

func TestBuildPaymentURL(t *testing.T) {
	svc := testVNPayService()
	createdAt := time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC)

	raw := svc.BuildPaymentURL("order-123", 120000, "Thanh toan don hang order-123", "203.0.113.7", createdAt)

	parsed, err := url.Parse(raw)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?"))

	query := parsed.Query()
	assert.Equal(t, "2.1.0", query.Get("vnp_Version"))
	assert.Equal(t, "pay", query.Get("vnp_Command"))
	assert.Equal(t, "TESTCODE", query.Get("vnp_TmnCode"))
	// Amounts go over the wire multiplied by 100
	assert.Equal(t, "12000000", query.Get("vnp_Amount"))
	assert.Equal(t, "VND", query.Get("vnp_CurrCode"))
	assert.Equal(t, "order-123", query.Get("vnp_TxnRef"))
	assert.Equal(t, "20260831143005", query.Get("vnp_CreateDate"))
	assert.NotEmpty(t, query.Get("vnp_SecureHash"))
}

func TestVerifyReturn_RoundTrip(t *testing.T) {
	svc := testVNPayService()
	createdAt := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	raw := svc.BuildPaymentURL("order-456", 235000, "Thanh toan don hang order-456", "203.0.113.7", createdAt)
	parsed, err := url.Parse(raw)
	assert.NoError(t, err)

	// The gateway echoes our parameters back with its own additions; the
	// hash fields themselves are excluded from the signed string
	query := parsed.Query()
	assert.True(t, svc.VerifyReturn(query))

	query.Set("vnp_SecureHashType", "HMACSHA512")
	assert.True(t, svc.VerifyReturn(query))
}

func TestVerifyReturn_Tampered(t *testing.T) {
	svc := testVNPayService()

	raw := svc.BuildPaymentURL("order-789", 50000, "info", "127.0.0.1", time.Now())
	parsed, _ := url.Parse(raw)
	query := parsed.Query()

	query.Set("vnp_Amount", "100")
	assert.False(t, svc.VerifyReturn(query))
}

func TestVerifyReturn_MissingHash(t *testing.T) {
	svc := testVNPayService()

	query := url.Values{}
	query.Set("vnp_TxnRef", "order-1")
	assert.False(t, svc.VerifyReturn(query))
}

func TestVerifyReturn_WrongSecret(t *testing.T) {
	svc := testVNPayService()
	other := NewVNPayService(&config.Config{
		VNPayTmnCode:    "TESTCODE",
		VNPayHashSecret: "differentsecret",
		VNPayURL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		VNPayReturnURL:  "http://localhost:8080/api/v1/payment/vnpay-return",
	})

	raw := svc.BuildPaymentURL("order-1", 10000, "info", "127.0.0.1", time.Now())
	parsed, _ := url.Parse(raw)
	assert.False(t, other.VerifyReturn(parsed.Query()))
}
