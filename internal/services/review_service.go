package services

import (
	"errors"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"weyala/internal/models"
)

// ReviewService handles rating submissions against routes.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Submit creates a review for a route. At most one review per (route, user)
// pair: the existence check gives the friendly message, the composite unique
// index catches the remaining race window between check and insert.
func (s *ReviewService) Submit(userID, routeID uint, rating int, comment string) Result {
	if userID == 0 {
		return fail(CodeUnauthenticated, "User not authenticated")
	}
	if rating < 1 || rating > 5 {
		return fail(CodeValidationError, "Rating must be between 1 and 5")
	}

	var route models.Route
	if err := s.db.First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(CodeNotFound, "Route not found")
		}
		logrus.WithError(err).Error("Submit review: route lookup failed")
		return fail(CodePersistenceError, "Failed to submit review.")
	}

	var existing int64
	if err := s.db.Model(&models.Review{}).
		Where("route_id = ? AND user_id = ?", routeID, userID).
		Count(&existing).Error; err != nil {
		logrus.WithError(err).Error("Submit review: duplicate check failed")
		return fail(CodePersistenceError, "Failed to submit review.")
	}
	if existing > 0 {
		return fail(CodeDuplicateReview, "You have already reviewed this route.")
	}

	review := models.Review{
		RouteID: routeID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.db.Create(&review).Error; err != nil {
		if isUniqueViolation(err) {
			return fail(CodeDuplicateReview, "You have already reviewed this route.")
		}
		logrus.WithError(err).Error("Submit review: insert failed")
		return fail(CodePersistenceError, "Failed to submit review.")
	}

	return ok("Review submitted successfully!")
}

// ListForRoute returns a route's reviews, newest first.
func (s *ReviewService) ListForRoute(routeID uint) Result {
	var reviews []models.Review
	if err := s.db.
		Where("route_id = ?", routeID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		logrus.WithError(err).Error("List reviews: query failed")
		return fail(CodePersistenceError, "Failed to load reviews")
	}
	return okData(reviews)
}

func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
