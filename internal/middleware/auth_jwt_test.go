package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/config"
	"marketplace/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

const testUserID = "3f1f6e0a-9a41-4f5d-8d2b-6f3a7b1c2d3e"

func mustMakeJWT(t *testing.T, secret string, sub string, role string, method jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  1,
		"exp":  9999999999,
	}

	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func protectedEcho(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		userID, _ := c.Get(middleware.CtxUserIDKey).(string)
		role, _ := c.Get(middleware.CtxUserRoleKey).(string)
		return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role})
	}, middleware.AuthJWT(cfg))
	return e
}

func runRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

// Authorizationなし => 401
func TestAuthJWT_Unauthorized_NoHeader(t *testing.T) {
	e := protectedEcho(config.Config{JWTSecret: "test-secret"})

	rec := runRequest(t, e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}

// Bearer形式じゃない => 401
func TestAuthJWT_Unauthorized_BadScheme(t *testing.T) {
	e := protectedEcho(config.Config{JWTSecret: "test-secret"})

	rec := runRequest(t, e, "Token abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 署名違い => 401
func TestAuthJWT_Unauthorized_BadSignature(t *testing.T) {
	e := protectedEcho(config.Config{JWTSecret: "correct-secret"})

	raw := mustMakeJWT(t, "wrong-secret", testUserID, "USER", jwt.SigningMethodHS256)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// アルゴリズム違い（HS512）=> 401
func TestAuthJWT_Unauthorized_WrongAlg(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := protectedEcho(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, testUserID, "USER", jwt.SigningMethodHS512)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// subがUUIDでない => 401
func TestAuthJWT_Unauthorized_BadSubject(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := protectedEcho(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, "not-a-uuid", "USER", jwt.SigningMethodHS256)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 正常：ctxに値が入る
func TestAuthJWT_Success_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := protectedEcho(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, testUserID, "USER", jwt.SigningMethodHS256)

	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, "USER", body.Role)
}
