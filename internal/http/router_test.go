package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/auth"
	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/rbac"
)

// Gates answer before any handler runs, so handlers can stay nil here.
func TestRouterPermissionGates(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:         "router-secret",
		JWTExpiration:     time.Hour,
		BasicAuthUser:     "demo",
		BasicAuthPassword: "pw",
	}
	app := fiber.New()
	SetupRouter(app, cfg, zap.NewNop(), nil, Handlers{})

	token := func(role string) string {
		tok, err := auth.GenerateJWT(cfg.JWTSecret, uuid.New(), role+"@precise.ai", role, time.Hour)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", fiber.StatusOK},
		{"earnings need a token", http.MethodGet, "/api/v1/earnings", "", fiber.StatusUnauthorized},
		{"buyer cannot read earnings", http.MethodGet, "/api/v1/earnings", token(rbac.RoleMediaBuyer), fiber.StatusForbidden},
		{"buyer cannot read earnings summary", http.MethodGet, "/api/v1/earnings/summary", token(rbac.RoleMediaBuyer), fiber.StatusForbidden},
		{"owner cannot read top segments", http.MethodGet, "/api/v1/audience/top-segments", token(rbac.RoleDataOwner), fiber.StatusForbidden},
		{"creator cannot read campaign audience", http.MethodGet, "/api/v1/campaigns/" + uuid.NewString() + "/audience", token(rbac.RoleSolutionCreator), fiber.StatusForbidden},
		{"owner cannot create campaigns", http.MethodPost, "/api/v1/campaigns", token(rbac.RoleDataOwner), fiber.StatusForbidden},
		{"buyer cannot publish solutions", http.MethodPost, "/api/v1/marketplace/solutions", token(rbac.RoleMediaBuyer), fiber.StatusForbidden},
		{"demo needs basic auth", http.MethodGet, "/api/v1/demo/overview", "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
