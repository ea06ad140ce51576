package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"weyala/internal/clock"
	"weyala/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Route{}, &models.Stop{}, &models.Review{}))

	// Shared in-memory databases outlive a single test; start clean.
	require.NoError(t, db.Exec("DELETE FROM reviews").Error)
	require.NoError(t, db.Exec("DELETE FROM stops").Error)
	require.NoError(t, db.Exec("DELETE FROM routes").Error)
	require.NoError(t, db.Exec("DELETE FROM users").Error)
	return db
}

func newRouteService(t *testing.T, window time.Duration) (*RouteService, *clock.Mock, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewRouteService(db, clk, window), clk, db
}

func boleToPiassa() RouteInput {
	return RouteInput{
		StartName:   "Bole",
		StartLat:    8.9936,
		StartLng:    38.7874,
		EndName:     "Piassa",
		EndLat:      9.0348,
		EndLng:      38.7525,
		Price:       "15",
		VehicleType: models.VehicleTaxi,
		Stops:       []StopInput{{Name: "Mexico", Lat: 9.0107, Lng: 38.7448}},
	}
}
