package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/localisation/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg config.SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func swaggerRequest(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	denyAll := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	allowAll := func(c *gin.Context) {
		c.Next()
	}

	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		jwt        gin.HandlerFunc
		remoteAddr string
		wantCode   int
	}{
		{"disabled", config.SwaggerConfig{}, nil, "192.0.2.1:1234", http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, nil, "192.0.2.1:1234", http.StatusOK},
		{"ip outside allow list", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, nil, "192.0.2.1:1234", http.StatusForbidden},
		{"ip inside cidr", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, nil, "10.1.2.3:1234", http.StatusOK},
		{"exact ip", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.0.2.1"}}, nil, "192.0.2.1:1234", http.StatusOK},
		{"invalid entries ignored", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"not-an-ip", "10.0.0.0/99"}}, nil, "10.1.2.3:1234", http.StatusForbidden},
		{"auth rejected", config.SwaggerConfig{Enabled: true, RequireAuth: true}, denyAll, "192.0.2.1:1234", http.StatusUnauthorized},
		{"auth accepted", config.SwaggerConfig{Enabled: true, RequireAuth: true}, allowAll, "192.0.2.1:1234", http.StatusOK},
		{"auth not configured on route", config.SwaggerConfig{Enabled: true}, denyAll, "192.0.2.1:1234", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := swaggerRequest(swaggerRouter(tt.cfg, tt.jwt), tt.remoteAddr)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "docs", w.Body.String())
			}
		})
	}
}
