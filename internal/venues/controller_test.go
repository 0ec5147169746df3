package venues

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venyuk/internal/shared/middleware"
	"venyuk/internal/shared/testutil"
	"venyuk/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "venue-test-secret"

func setupVenueRouter(t *testing.T) (*gin.Engine, Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &Venue{})
	repo := NewRepository(db)
	cfg := testConfig()
	cfg.JWT.Secret = testSecret
	svc := NewService(repo, &stubWindows{}, cache.NewService(nil), cfg)

	r := gin.New()
	SetupVenueRoutes(r.Group("/api/v1"), NewController(svc), middleware.JWTAuthWithConfig(cfg))
	return r, repo
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := middleware.IssueAccessToken(testSecret, uuid.New(), role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestController_GetSlotsRequiresDate(t *testing.T) {
	r, repo := setupVenueRouter(t)
	v := seedVenue(t, repo, "Court A", CategoryTennis, 80000, 4.0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+v.ID.String()+"/slots", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+v.ID.String()+"/slots?date=tomorrow", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+v.ID.String()+"/slots?date=2030-02-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestController_GetVenueNotFound(t *testing.T) {
	r, _ := setupVenueRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}

func TestController_ListVenuesIgnoresBadPaging(t *testing.T) {
	r, repo := setupVenueRouter(t)
	seedVenue(t, repo, "Court A", CategoryTennis, 80000, 4.0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/venues?sort=cheapest&page=0&limit=abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data VenueListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.Page)
	assert.Len(t, body.Data.Results, 1)
}

func TestController_AdminCreateVenue(t *testing.T) {
	r, _ := setupVenueRouter(t)
	payload := []byte(`{"name":"Padel Pro","category":"padel","price_per_hour":"300000","rating":4.7}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/venues", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, middleware.RoleUser))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/venues", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, middleware.RoleAdmin))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data VenueResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Padel Pro", body.Data.Name)
	assert.Equal(t, "300000", body.Data.PricePerHour.String())
}
