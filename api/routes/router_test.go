package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"venyuk/internal/notifications"
	"venyuk/internal/shared/config"
	"venyuk/internal/shared/database"
	"venyuk/internal/shared/metrics"
	"venyuk/internal/shared/middleware"
	"venyuk/internal/shared/testutil"
	"venyuk/internal/venues"
	"venyuk/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

func testConfig() *config.Config {
	return &config.Config{
		APIVersion: "v1",
		APIPrefix:  "/api",
		JWT:        config.JWTConfig{Secret: "router-test-secret"},
		Redis:      config.RedisConfig{CacheTTL: time.Minute, SlotsTTL: time.Minute},
		Booking: config.BookingConfig{
			Timezone:        "Asia/Jakarta",
			MinDuration:     time.Hour,
			MaxEditDuration: 12 * time.Hour,
			OpenHour:        7,
			CloseHour:       22,
		},
	}
}

func newEngine(t *testing.T, health HealthChecker) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.Register()

	cfg := testConfig()
	db := testutil.NewDB(t, database.Models()...)
	client, _ := testutil.NewRedis(t)
	now := func() time.Time { return time.Date(2025, time.October, 10, 9, 0, 0, 0, time.UTC) }

	engine := gin.New()
	NewRouter(cfg, db, health, cache.NewService(client), notifications.NoopPublisher{}, now).SetupRoutes(engine)

	v := &venues.Venue{Name: "Wired Arena", Category: venues.CategoryFutsal, PricePerHour: decimal.NewFromInt(50000), IsAvailable: true}
	require.NoError(t, db.Create(v).Error)
	return engine, cfg
}

func TestHealthRoutes(t *testing.T) {
	engine, _ := newEngine(t, fakeHealth{})

	for _, path := range []string{"/health", "/ping", "/status"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	unhealthy, _ := newEngine(t, fakeHealth{err: errors.New("db down")})
	w = httptest.NewRecorder()
	unhealthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBookingThroughWiredRoutes(t *testing.T) {
	engine, cfg := newEngine(t, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/venues?q=wired", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wired Arena")

	var venueID string
	{
		var body struct {
			Data venues.VenueListResponse `json:"data"`
		}
		require.NoError(t, decodeJSON(w, &body))
		require.Len(t, body.Data.Results, 1)
		venueID = body.Data.Results[0].ID
	}

	token, err := middleware.IssueAccessToken(cfg.JWT.Secret, uuid.New(), middleware.RoleUser, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/venues/"+venueID+"/bookings",
		strings.NewReader(`{"booking_date":"2025-10-11","start_time":"18:00","end_time":"20:00"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+venueID+"/slots?date=2025-10-11", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"booked":true`)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShopCheckoutThroughWiredRoutes(t *testing.T) {
	engine, cfg := newEngine(t, nil)

	adminToken, err := middleware.IssueAccessToken(cfg.JWT.Secret, uuid.New(), middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)
	userToken, err := middleware.IssueAccessToken(cfg.JWT.Secret, uuid.New(), middleware.RoleUser, time.Hour)
	require.NoError(t, err)

	send := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/api/v1/admin/products", `{"title":"Wired Racket","category":"tennis","price":"200000","stock":2}`, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, decodeJSON(w, &product))

	promo := `{"title":"Wired Gear","code":"WIRED10","scope":"SHOP","discount_percent":10,` +
		`"start_date":"2025-10-01T00:00:00Z","end_date":"2025-12-01T00:00:00Z","max_uses":5}`
	require.Equal(t, http.StatusCreated, send(http.MethodPost, "/api/v1/admin/promos", promo, adminToken).Code)

	w = send(http.MethodPost, "/api/v1/products/"+product.Data.ID+"/checkout", `{"quantity":1,"promo_code":"wired10"}`, userToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"promo_applied":true`)
	assert.Contains(t, w.Body.String(), `"total_price":"180000"`)

	w = send(http.MethodGet, "/api/v1/promos/WIRED10", "", userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining_uses":4`)
}

func decodeJSON(w *httptest.ResponseRecorder, dest interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), dest)
}
