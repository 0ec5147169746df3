package promos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"venyuk/internal/shared/config"
	"venyuk/internal/shared/middleware"
	"venyuk/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "promo-test-secret"

func adminUpdate(t *testing.T, r *gin.Engine, role, id, payload string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := middleware.IssueAccessToken(testSecret, uuid.New(), role, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/promos/"+id, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func TestController_UpdatePromo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, repo := newPromoDB(t)
	p := seedPromo(t, repo, "SHOP15-OCT25-QW12", 15, 10, 4, func(p *Promo) { p.Scope = ScopeShop })

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := gin.New()
	svc := NewService(repo, NewResolver(repo, clock), cache.NewService(nil), clock)
	SetupPromoRoutes(r.Group("/api/v1"), NewController(svc), middleware.JWTAuthWithConfig(cfg))

	w := adminUpdate(t, r, middleware.RoleUser, p.ID.String(), `{"discount_percent":20}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = adminUpdate(t, r, middleware.RoleAdmin, p.ID.String(), `{"discount_percent":120}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = adminUpdate(t, r, middleware.RoleAdmin, p.ID.String(), `{"max_uses":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = adminUpdate(t, r, middleware.RoleAdmin, uuid.NewString(), `{"discount_percent":20}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = adminUpdate(t, r, middleware.RoleAdmin, p.ID.String(), `{"discount_percent":20,"max_uses":12}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data PromoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 20, body.Data.DiscountPercent)
	assert.Equal(t, 8, body.Data.RemainingUses)
	assert.Equal(t, "SHOP15-OCT25-QW12", body.Data.Code)
}
