package products

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"venyuk/internal/shared/config"
	"venyuk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "product-test-secret"

func TestController_Checkout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newHarness(t)
	p := h.product(t, "Astrox 88D", CategoryBadminton, 150000, 1)

	r := gin.New()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	SetupProductRoutes(r.Group("/api/v1"), NewController(h.svc), middleware.JWTAuthWithConfig(cfg))

	userToken, err := middleware.IssueAccessToken(testSecret, uuid.New(), middleware.RoleUser, time.Hour)
	require.NoError(t, err)
	adminToken, err := middleware.IssueAccessToken(testSecret, uuid.New(), middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)

	send := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	checkoutPath := "/api/v1/products/" + p.ID.String() + "/checkout"

	assert.Equal(t, http.StatusUnauthorized, send(http.MethodPost, checkoutPath, `{}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, checkoutPath, `{"quantity":50}`, userToken).Code)
	assert.Equal(t, http.StatusNotFound, send(http.MethodPost, "/api/v1/products/"+uuid.NewString()+"/checkout", `{}`, userToken).Code)

	w := send(http.MethodPost, checkoutPath, "", userToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Data CheckoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Data.RemainingStock)
	assert.Equal(t, p.ID.String(), body.Data.ProductID)

	w = send(http.MethodPost, checkoutPath, `{"quantity":1}`, userToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrOutOfStock.Error())

	w = send(http.MethodGet, "/api/v1/products/"+p.ID.String(), "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"in_stock":false`)

	product := `{"title":"Competition Goggles","category":"swimming","price":"320000","stock":25}`
	assert.Equal(t, http.StatusForbidden, send(http.MethodPost, "/api/v1/admin/products", product, userToken).Code)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/api/v1/admin/products", `{"title":"X","category":"swimming","price":"1"}`, adminToken).Code)
	assert.Equal(t, http.StatusCreated, send(http.MethodPost, "/api/v1/admin/products", product, adminToken).Code)

	w = send(http.MethodGet, "/api/v1/products?category=swimming&page=abc", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Competition Goggles")
	assert.NotContains(t, w.Body.String(), "Astrox 88D")

	w = send(http.MethodGet, "/api/v1/purchases", "", userToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Astrox 88D")
}
