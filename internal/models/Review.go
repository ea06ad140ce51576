package models

import (
	"gorm.io/gorm"
)

// Review is a rating with an optional comment left by a user on a route.
// The composite unique index enforces one review per (route, user) pair at
// the storage layer, backing up the application-level existence check.
type Review struct {
	gorm.Model

	RouteID uint `json:"route_id" gorm:"index;uniqueIndex:idx_reviews_route_user"`
	UserID  uint `json:"user_id" gorm:"uniqueIndex:idx_reviews_route_user"`

	Rating  int    `json:"rating" binding:"required" gorm:"check:rating >= 1 AND rating <= 5"`
	Comment string `json:"comment,omitempty" gorm:"type:text"`
}
