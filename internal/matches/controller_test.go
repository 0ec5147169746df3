package matches

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"venyuk/internal/shared/config"
	"venyuk/internal/shared/middleware"
	"venyuk/internal/venues"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "match-test-secret"

func TestController_CreateAndJoin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, db := newTestService(t)
	v := seedVenue(t, db, "Court", venues.CategoryVoli)

	r := gin.New()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	SetupMatchRoutes(r.Group("/api/v1"), NewController(svc), middleware.JWTAuthWithConfig(cfg))

	token, err := middleware.IssueAccessToken(testSecret, uuid.New(), middleware.RoleUser, time.Hour)
	require.NoError(t, err)

	send := func(method, path, body string, auth bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if auth {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	start := fixedNow.Add(24 * time.Hour).Format(time.RFC3339)
	end := fixedNow.Add(26 * time.Hour).Format(time.RFC3339)
	payload := `{"venue_id":"` + v.ID.String() + `","slot_total":1,"start_time":"` + start + `","end_time":"` + end + `"}`

	assert.Equal(t, http.StatusUnauthorized, send(http.MethodPost, "/api/v1/matches", payload, false).Code)

	invalid := `{"venue_id":"` + v.ID.String() + `","slot_total":0,"start_time":"` + start + `","end_time":"` + end + `"}`
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/api/v1/matches", invalid, true).Code)

	w := send(http.MethodPost, "/api/v1/matches", payload, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	list, err := svc.ListMatches(context.Background(), ListMatchesQuery{})
	require.NoError(t, err)
	require.Len(t, list.Matches, 1)
	matchPath := "/api/v1/matches/" + list.Matches[0].ID

	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, matchPath+"/join", `{"full_name":"A"}`, true).Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, matchPath+"/join", `{"full_name":"Ana Putri","phone":"0812345678"}`, true).Code)
	assert.Equal(t, http.StatusConflict, send(http.MethodPost, matchPath+"/join", `{"full_name":"Ana Putri","phone":"0812345678"}`, true).Code)

	w = send(http.MethodGet, matchPath, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana Putri")

	assert.Equal(t, http.StatusNotFound, send(http.MethodGet, "/api/v1/matches/"+uuid.NewString(), "", false).Code)
}
