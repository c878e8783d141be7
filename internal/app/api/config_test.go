package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 5*time.Minute, cfg.MLCacheTTL)
	assert.Equal(t, "http://localhost:5000", cfg.MLBaseURL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:4200"}, cfg.CORSOrigins)
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("API_PREFIX", "/shop/")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("CORS_ORIGINS", " https://shop.example , ,https://admin.example")
	t.Setenv("VNP_TMN_CODE", "TMN01")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/shop", cfg.APIPrefix)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
	assert.Equal(t, "TMN01", cfg.VNPay.TmnCode)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":      {},
		"non-numeric port":    {"JWT_SECRET": "x", "PORT": "http"},
		"relative prefix":     {"JWT_SECRET": "x", "API_PREFIX": "api"},
		"zero ttl":            {"JWT_SECRET": "x", "JWT_TTL_MINUTES": "0"},
		"garbage cache ttl":   {"JWT_SECRET": "x", "ML_CACHE_TTL_SECONDS": "soon"},
		"relative ml address": {"JWT_SECRET": "x", "ML_BASE_URL": "localhost"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestHTTPHandler_StripsPrefixAndAppliesCORS(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := httpHandler(Config{APIPrefix: "/api/v1", CORSOrigins: []string{"http://localhost:3000"}}, mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
