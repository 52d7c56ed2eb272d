package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/IDLKZ/jankuier-back-sub002/configs"
	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/http/middleware"
	domain "github.com/IDLKZ/jankuier-back-sub002/internal/entity"
	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testConfig() configs.Config {
	var cfg configs.Config
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.Issuer = "commerce-api"
	cfg.Security.Audience = "commerce-clients"
	cfg.Security.TTL = time.Hour
	return cfg
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestIssueTokenAndAuthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	th := NewTokenHandler(cfg)
	auth := middleware.NewAuthz(cfg)

	r := gin.New()
	r.POST("/v1/token", th.IssueToken)
	r.GET("/v1/ping", auth.Require("orders.read"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// wrong secret
	w := postForm(r, "/v1/token", url.Values{
		"client_id":     {"storefront-web"},
		"client_secret": {"wrong"},
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// valid client credentials
	w = postForm(r, "/v1/token", url.Values{
		"client_id":     {"storefront-web"},
		"client_secret": {"storefront-secret"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)

	// protected route without a token
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// protected route with the issued token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthzRejectsMissingPermission(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	th := NewTokenHandler(cfg)
	auth := middleware.NewAuthz(cfg)

	r := gin.New()
	r.POST("/v1/token", th.IssueToken)
	r.GET("/v1/admin", auth.Require("admin.write"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := postForm(r, "/v1/token", url.Values{
		"client_id":     {"svc-analytics"},
		"client_secret": {"ana-secret"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAbortWithErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{usecase.ErrNotFound, http.StatusNotFound},
		{usecase.ErrInvalidQty, http.StatusBadRequest},
		{usecase.ErrDuplicate, http.StatusConflict},
		{usecase.ErrInvalidVerificationCode, http.StatusUnprocessableEntity},
		{domain.ErrIllegalStatusTransition, http.StatusUnprocessableEntity},
		{domain.ErrUnknownStatus, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		abortWithError(c, tc.err)
		require.Equal(t, tc.status, w.Code, "error %v", tc.err)
	}
}
