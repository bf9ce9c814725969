package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/middleware"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeItem{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.Voucher{},
		&models.Shift{},
		&models.Attendance{},
		&models.SalaryLog{},
		&models.ActivityLog{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		token := authHeader[7:]

		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing
// It sets up the context exactly as the real EnsureValidToken middleware does
func mockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", accessToken)
		if role != "" {
			c.Set("role", role)
		}

		customClaims := &middleware.CustomClaims{
			Role: role,
		}
		mockClaims := &validator.ValidatedClaims{
			CustomClaims: customClaims,
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response body: %v", err)
	}
	return response
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	response := parseResponse(t, w)
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, code, errorData["code"])
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	userInfoMap := map[string]*services.Auth0UserInfo{
		"valid-token": {
			Sub:   "auth0|newuser",
			Email: "newuser@example.com",
			Name:  "New User",
		},
		"no-email-token": {
			Sub:  "auth0|noemail",
			Name: "No Email",
		},
	}
	mockServer := setupMockAuth0Server(userInfoMap)
	defer mockServer.Close()

	config.SetConfig(&config.Config{Auth0Domain: mockServer.URL})

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		accessToken    string
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Successfully create user from Auth0 userinfo",
			auth0ID:        "auth0|newuser",
			role:           models.RoleCashier,
			accessToken:    "valid-token",
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "newuser@example.com", data["email"])
				assert.Equal(t, "New User", data["name"])
				assert.Equal(t, models.RoleCashier, data["role"])
			},
		},
		{
			name:           "Fail with duplicate email",
			auth0ID:        "auth0|newuser2",
			role:           "superuser",
			accessToken:    "valid-token",
			expectedStatus: http.StatusConflict,
			expectedError:  "USER_EXISTS",
		},
		{
			name:           "Fail with missing email from Auth0",
			auth0ID:        "auth0|noemail",
			role:           models.RoleStaff,
			accessToken:    "no-email-token",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_EMAIL",
		},
		{
			name:           "Fail with invalid access token",
			auth0ID:        "auth0|whoever",
			role:           models.RoleStaff,
			accessToken:    "bad-token",
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "AUTH0_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/users",
				mockAuthMiddleware(tt.auth0ID, tt.role, tt.accessToken),
				CreateUser,
			)

			w := performRequest(router, http.MethodPost, "/users", map[string]interface{}{})

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assertErrorCode(t, w, tt.expectedError)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, parseResponse(t, w))
			}
		})
	}
}

func TestCreateStaff(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successfully create local staff",
			requestBody: map[string]interface{}{
				"name":        "Tran Thi B",
				"email":       "b@example.com",
				"role":        models.RoleKitchen,
				"base_salary": 5000000,
				"hourly_rate": 25000,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Fail with invalid role",
			requestBody: map[string]interface{}{
				"name":  "Nguyen Van C",
				"email": "c@example.com",
				"role":  "owner",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_ROLE",
		},
		{
			name: "Fail with duplicate email",
			requestBody: map[string]interface{}{
				"name":  "Tran Thi B2",
				"email": "b@example.com",
				"role":  models.RoleStaff,
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "USER_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/users/staff", CreateStaff)

			w := performRequest(router, http.MethodPost, "/users/staff", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assertErrorCode(t, w, tt.expectedError)
			}
		})
	}
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	auth0ID := "auth0|existing"
	user := models.User{
		Auth0ID: &auth0ID,
		Name:    "Existing User",
		Email:   "existing@example.com",
		Role:    models.RoleAdmin,
	}
	db.Create(&user)

	t.Run("Returns own profile", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", mockAuthMiddleware(auth0ID, models.RoleAdmin, "token"), GetMyProfile)

		w := performRequest(router, http.MethodGet, "/users/me", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := parseResponse(t, w)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "existing@example.com", data["email"])
	})

	t.Run("Fails when no profile exists", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", mockAuthMiddleware("auth0|ghost", models.RoleStaff, "token"), GetMyProfile)

		w := performRequest(router, http.MethodGet, "/users/me", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, "USER_NOT_FOUND")
	})
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{Name: "To Delete", Email: "delete@example.com", Role: models.RoleStaff}
	db.Create(&user)

	router := setupTestRouter()
	router.DELETE("/users/:id", DeleteUser)

	w := performRequest(router, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Soft deleted: gone from default queries, present unscoped
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Unscoped().Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
