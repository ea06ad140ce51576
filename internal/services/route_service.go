package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"weyala/internal/clock"
	"weyala/internal/models"
)

// RouteService handles submission, update, deletion and listing of routes.
// The database handle and clock are injected; the requesting user is always
// an explicit parameter, never read from ambient state.
type RouteService struct {
	db     *gorm.DB
	clock  clock.Clock
	window time.Duration
}

func NewRouteService(db *gorm.DB, clk clock.Clock, window time.Duration) *RouteService {
	return &RouteService{db: db, clock: clk, window: window}
}

// StopInput is one intermediate point in a submitted stop list. Order is
// implied by position in the slice.
type StopInput struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// RouteInput carries the form fields for a route submission or update.
// Price arrives as text and is parsed server-side.
type RouteInput struct {
	StartName   string      `json:"start_name"`
	StartLat    float64     `json:"start_lat"`
	StartLng    float64     `json:"start_lng"`
	EndName     string      `json:"end_name"`
	EndLat      float64     `json:"end_lat"`
	EndLng      float64     `json:"end_lng"`
	Price       string      `json:"price"`
	VehicleType string      `json:"vehicle_type"`
	Description string      `json:"description"`
	Stops       []StopInput `json:"stops"`
}

// RouteView is a route as served to the map client, with the aggregate
// rating joined in from reviews.
type RouteView struct {
	models.Route
	AvgRating   *float64 `json:"avg_rating,omitempty"`
	RatingCount int64    `json:"rating_count"`
}

func (in *RouteInput) validate() (float64, Result) {
	price, err := strconv.ParseFloat(in.Price, 64)
	if err != nil {
		return 0, fail(CodeValidationError, "Price must be a number")
	}
	if price < 0 {
		return 0, fail(CodeValidationError, "Price cannot be negative")
	}
	if !models.ValidVehicleType(in.VehicleType) {
		return 0, fail(CodeValidationError, "Unknown vehicle type: "+in.VehicleType)
	}
	if in.StartName == "" || in.EndName == "" {
		return 0, fail(CodeValidationError, "Start and end locations are required")
	}
	return price, Result{Success: true}
}

func stopRows(routeID uint, stops []StopInput) []models.Stop {
	rows := make([]models.Stop, 0, len(stops))
	for i, s := range stops {
		rows = append(rows, models.Stop{
			RouteID:   routeID,
			Name:      s.Name,
			Lat:       s.Lat,
			Lng:       s.Lng,
			StopOrder: i + 1,
		})
	}
	return rows
}

// Submit creates a route with its stops for userID. The rate-limit check,
// route insert and stop inserts share one transaction so a route never lands
// without its stops, and two near-simultaneous submissions cannot both pass
// the check.
func (s *RouteService) Submit(userID uint, in RouteInput) Result {
	if userID == 0 {
		return fail(CodeUnauthenticated, "User not authenticated")
	}

	price, res := in.validate()
	if !res.Success {
		return res
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logrus.WithError(tx.Error).Error("Submit: could not start transaction")
		return fail(CodeSystemError, "System error. Please try again.")
	}

	now := s.clock.Now()
	cutoff := now.Add(-s.window)

	var recent int64
	if err := tx.Model(&models.Route{}).
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Count(&recent).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("Submit: rate limit check failed")
		return fail(CodeSystemError, "System error. Please try again.")
	}
	if recent > 0 {
		tx.Rollback()
		minutes := int(s.window.Minutes())
		return fail(CodeRateLimited, fmt.Sprintf("Rate limit exceeded. Please wait %d minutes before adding another route.", minutes))
	}

	route := models.Route{
		UserID:      userID,
		StartName:   in.StartName,
		StartLat:    in.StartLat,
		StartLng:    in.StartLng,
		EndName:     in.EndName,
		EndLat:      in.EndLat,
		EndLng:      in.EndLng,
		Price:       price,
		VehicleType: in.VehicleType,
		Description: in.Description,
		IsVerified:  false,
	}
	route.CreatedAt = now
	if err := tx.Create(&route).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("Submit: route insert failed")
		return fail(CodePersistenceError, "Failed to save route: "+err.Error())
	}

	if len(in.Stops) > 0 {
		stops := stopRows(route.ID, in.Stops)
		if err := tx.Create(&stops).Error; err != nil {
			tx.Rollback()
			logrus.WithError(err).Error("Submit: stop insert failed")
			return fail(CodePersistenceError, "Failed to save stops: "+err.Error())
		}
	}

	if err := tx.Commit().Error; err != nil {
		logrus.WithError(err).Error("Submit: commit failed")
		return fail(CodePersistenceError, "Failed to save route: "+err.Error())
	}

	return ok("Route submitted successfully!")
}

// Update replaces a route's fields and its whole stop set. Only the owner
// may update; last writer wins, there is no conflict detection.
func (s *RouteService) Update(userID, routeID uint, in RouteInput) Result {
	if userID == 0 {
		return fail(CodeUnauthenticated, "User not authenticated")
	}

	var route models.Route
	if err := s.db.First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(CodeNotFound, "Route not found")
		}
		logrus.WithError(err).Error("Update: fetch failed")
		return fail(CodePersistenceError, "System error. Please try again.")
	}
	if route.UserID != userID {
		return fail(CodeForbidden, "You are not authorized to edit this route")
	}

	price, res := in.validate()
	if !res.Success {
		return res
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logrus.WithError(tx.Error).Error("Update: could not start transaction")
		return fail(CodeSystemError, "System error. Please try again.")
	}

	updates := map[string]any{
		"start_name":   in.StartName,
		"start_lat":    in.StartLat,
		"start_lng":    in.StartLng,
		"end_name":     in.EndName,
		"end_lat":      in.EndLat,
		"end_lng":      in.EndLng,
		"price":        price,
		"vehicle_type": in.VehicleType,
		"description":  in.Description,
		"updated_at":   s.clock.Now(),
	}
	if err := tx.Model(&models.Route{}).Where("id = ?", routeID).Updates(updates).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("Update: route update failed")
		return fail(CodePersistenceError, "Failed to update route: "+err.Error())
	}

	// Full replacement: delete every existing stop, re-insert the new set.
	// An empty set is permitted and leaves the route with zero stops.
	if err := tx.Unscoped().Where("route_id = ?", routeID).Delete(&models.Stop{}).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("Update: stop delete failed")
		return fail(CodePersistenceError, "Failed to update stops: "+err.Error())
	}
	if len(in.Stops) > 0 {
		stops := stopRows(routeID, in.Stops)
		if err := tx.Create(&stops).Error; err != nil {
			tx.Rollback()
			logrus.WithError(err).Error("Update: stop insert failed")
			return fail(CodePersistenceError, "Failed to update stops: "+err.Error())
		}
	}

	if err := tx.Commit().Error; err != nil {
		logrus.WithError(err).Error("Update: commit failed")
		return fail(CodePersistenceError, "Failed to update route: "+err.Error())
	}

	return ok("Route updated successfully!")
}

// Delete removes a route with its stops and reviews. The final delete is
// scoped to the owner and checked for an affected row: a delete that removes
// nothing reports not-found rather than success.
func (s *RouteService) Delete(userID, routeID uint) Result {
	if userID == 0 {
		return fail(CodeUnauthenticated, "User not authenticated")
	}

	var route models.Route
	if err := s.db.First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(CodeNotFound, "Route not found")
		}
		logrus.WithError(err).Error("Delete: fetch failed")
		return fail(CodePersistenceError, "System error. Please try again.")
	}
	if route.UserID != userID {
		return fail(CodeForbidden, "You are not authorized to delete this route")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logrus.WithError(tx.Error).Error("Delete: could not start transaction")
		return fail(CodeSystemError, "System error. Please try again.")
	}

	if err := tx.Unscoped().Where("route_id = ?", routeID).Delete(&models.Review{}).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("Delete: review delete failed")
		return fail(CodePersistenceError, "Failed to delete route: "+err.Error())
	}
	if err := tx.Unscoped().Where("route_id = ?", routeID).Delete(&models.Stop{}).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("Delete: stop delete failed")
		return fail(CodePersistenceError, "Failed to delete route: "+err.Error())
	}

	res := tx.Where("id = ? AND user_id = ?", routeID, userID).Delete(&models.Route{})
	if res.Error != nil {
		tx.Rollback()
		logrus.WithError(res.Error).Error("Delete: route delete failed")
		return fail(CodePersistenceError, "Failed to delete route: "+res.Error.Error())
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fail(CodeNotFound, "Route not found or already removed")
	}

	if err := tx.Commit().Error; err != nil {
		logrus.WithError(err).Error("Delete: commit failed")
		return fail(CodePersistenceError, "Failed to delete route: "+err.Error())
	}

	return ok("Route deleted successfully!")
}

// List returns every route, newest first, with ordered stops and the
// aggregate rating joined in.
func (s *RouteService) List() Result {
	var routes []models.Route
	if err := s.db.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		Order("created_at DESC").
		Find(&routes).Error; err != nil {
		logrus.WithError(err).Error("List: query failed")
		return fail(CodePersistenceError, "Failed to load routes")
	}

	aggs, err := s.ratingAggregates()
	if err != nil {
		logrus.WithError(err).Error("List: rating aggregation failed")
		return fail(CodePersistenceError, "Failed to load routes")
	}

	views := make([]RouteView, 0, len(routes))
	for _, r := range routes {
		views = append(views, s.toView(r, aggs))
	}
	return okData(views)
}

// Get returns a single route with its ordered stops and aggregate rating.
func (s *RouteService) Get(routeID uint) Result {
	var route models.Route
	if err := s.db.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(CodeNotFound, "Route not found")
		}
		logrus.WithError(err).Error("Get: query failed")
		return fail(CodePersistenceError, "Failed to load route")
	}

	aggs, err := s.ratingAggregates()
	if err != nil {
		logrus.WithError(err).Error("Get: rating aggregation failed")
		return fail(CodePersistenceError, "Failed to load route")
	}
	return okData(s.toView(route, aggs))
}

type ratingAggregate struct {
	RouteID uint
	Avg     float64
	Cnt     int64
}

func (s *RouteService) ratingAggregates() (map[uint]ratingAggregate, error) {
	var rows []ratingAggregate
	err := s.db.Model(&models.Review{}).
		Select("route_id, AVG(rating) AS avg, COUNT(*) AS cnt").
		Group("route_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	byRoute := make(map[uint]ratingAggregate, len(rows))
	for _, r := range rows {
		byRoute[r.RouteID] = r
	}
	return byRoute, nil
}

func (s *RouteService) toView(r models.Route, aggs map[uint]ratingAggregate) RouteView {
	view := RouteView{Route: r}
	if agg, found := aggs[r.ID]; found {
		avg := agg.Avg
		view.AvgRating = &avg
		view.RatingCount = agg.Cnt
	}
	return view
}
