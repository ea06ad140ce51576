package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"weyala/internal/clock"
	"weyala/internal/directions"
	"weyala/internal/geocode"
	"weyala/internal/middleware"
	"weyala/internal/models"
	"weyala/internal/services"
)

const osrmBody = `{"code":"Ok","routes":[{"geometry":{"type":"LineString","coordinates":[[38.7874,8.9936],[38.7525,9.0348]]}}]}`

func newTestServer(t *testing.T) (*gin.Engine, *clock.Mock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Route{}, &models.Stop{}, &models.Review{}))
	require.NoError(t, db.Exec("DELETE FROM reviews").Error)
	require.NoError(t, db.Exec("DELETE FROM stops").Error)
	require.NoError(t, db.Exec("DELETE FROM routes").Error)
	require.NoError(t, db.Exec("DELETE FROM users").Error)

	osrm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(osrmBody))
	}))
	t.Cleanup(osrm.Close)

	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	deps := Deps{
		DB:         db,
		Routes:     services.NewRouteService(db, clk, time.Minute),
		Reviews:    services.NewReviewService(db),
		Geo:        &services.GeoService{Geocoder: geocode.NewClient("http://unused", "", "ET")},
		Directions: directions.NewClient(osrm.URL),
	}
	return SetupRouter(deps), clk
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

const routeBody = `{
	"start_name": "Bole", "start_lat": 8.9936, "start_lng": 38.7874,
	"end_name": "Piassa", "end_lat": 9.0348, "end_lng": 38.7525,
	"price": "15", "vehicle_type": "taxi",
	"stops": [{"name": "Mexico", "lat": 9.0107, "lng": 38.7448}]
}`

func TestRouteLifecycleOverHTTP(t *testing.T) {
	r, clk := newTestServer(t)

	token, err := middleware.GenerateToken(1)
	require.NoError(t, err)

	// Unauthenticated submissions never reach the service.
	w := doJSON(r, http.MethodPost, "/routes", "", routeBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/routes", token, routeBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	envelope := parseEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "Route submitted successfully!", envelope["message"])

	// A second submission inside the window is throttled.
	clk.Advance(30 * time.Second)
	w = doJSON(r, http.MethodPost, "/routes", token, routeBody)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	envelope = parseEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "rate_limited", envelope["code"])
	assert.Contains(t, envelope["message"], "Rate limit")

	// The list is public and carries the data payload, no message.
	w = doJSON(r, http.MethodGet, "/routes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	envelope = parseEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	assert.Nil(t, envelope["message"])
	data := envelope["data"].([]any)
	require.Len(t, data, 1)
	route := data[0].(map[string]any)
	assert.Equal(t, "Bole", route["start_name"])
	routeID := int(route["ID"].(float64))

	// Polyline comes from the stubbed road router.
	w = doJSON(r, http.MethodGet, "/routes/"+strconv.Itoa(routeID)+"/polyline", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	envelope = parseEnvelope(t, w)
	payload := envelope["data"].(map[string]any)
	assert.Equal(t, "road", payload["source"])
	assert.Len(t, payload["positions"].([]any), 2)

	// Only the owner may delete.
	otherToken, err := middleware.GenerateToken(2)
	require.NoError(t, err)
	w = doJSON(r, http.MethodDelete, "/routes/"+strconv.Itoa(routeID), otherToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, "/routes/"+strconv.Itoa(routeID), token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewEndpoints(t *testing.T) {
	r, _ := newTestServer(t)

	owner, err := middleware.GenerateToken(1)
	require.NoError(t, err)
	reviewer, err := middleware.GenerateToken(2)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/routes", owner, routeBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/routes", "", "")
	data := parseEnvelope(t, w)["data"].([]any)
	routeID := int(data[0].(map[string]any)["ID"].(float64))

	body := `{"rating": 5, "comment": "quick"}`
	w = doJSON(r, http.MethodPost, "/routes/"+strconv.Itoa(routeID)+"/reviews", reviewer, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/routes/"+strconv.Itoa(routeID)+"/reviews", reviewer, body)
	require.Equal(t, http.StatusConflict, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "duplicate_review", envelope["code"])

	w = doJSON(r, http.MethodGet, "/routes/"+strconv.Itoa(routeID)+"/reviews", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseEnvelope(t, w)["data"].([]any), 1)
}

func TestGeocodeSearchValidation(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/geocode/search?text=ab", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/geocode/reverse?lat=abc&lng=38.7", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

