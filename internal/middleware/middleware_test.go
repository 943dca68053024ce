package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret"}
}

func whoami(c *gin.Context) {
	id, _ := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"id": id, "role": c.GetString(ContextUserRole)})
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAndRoles(t *testing.T) {
	cfg := testConfig()
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), RequireRole(RoleBarber), whoami)

	barberToken, err := GenerateToken(cfg.JWTSecret, 5, RoleBarber)
	require.NoError(t, err)
	clientToken, err := GenerateToken(cfg.JWTSecret, 9, RoleClient)
	require.NoError(t, err)
	forged, err := GenerateToken("other-secret", 5, RoleBarber)
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/me", barberToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"role":"barber"}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/me", clientToken).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", forged).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
}

func TestOptionalAuth(t *testing.T) {
	cfg := testConfig()
	r := gin.New()
	r.GET("/who", OptionalAuth(cfg), whoami)

	clientToken, err := GenerateToken(cfg.JWTSecret, 9, RoleClient)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":9,"role":"client"}`, do(r, http.MethodGet, "/who", clientToken).Body.String())
	assert.JSONEq(t, `{"id":0,"role":""}`, do(r, http.MethodGet, "/who", "").Body.String())
	assert.JSONEq(t, `{"id":0,"role":""}`, do(r, http.MethodGet, "/who", "garbage").Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://barberbook.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://barberbook.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := do(r, http.MethodGet, "/x", "")
	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "2f1c2b7e-8a3e-4c57-b5a1-1f0e5c1d2a33")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "2f1c2b7e-8a3e-4c57-b5a1-1f0e5c1d2a33", w.Body.String())
}

func TestMetricsCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/barbers/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/barbers/1", "")
	do(r, http.MethodGet, "/barbers/2", "")
	do(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/barbers/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}
