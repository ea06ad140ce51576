package models

import (
	"gorm.io/gorm"
)

// Vehicle type tags accepted for a route submission.
const (
	VehicleTaxi  = "taxi"
	VehicleBus   = "bus"
	VehicleRide  = "ride"
	VehicleBajaj = "bajaj"
)

// ValidVehicleType reports whether tag is one of the enumerated vehicle types.
func ValidVehicleType(tag string) bool {
	switch tag {
	case VehicleTaxi, VehicleBus, VehicleRide, VehicleBajaj:
		return true
	}
	return false
}

// Route represents a crowd-sourced transit segment submitted by a user:
// a start point, an end point, a fare and a vehicle type.
// A route owns its stops and reviews; both go away with the route.
type Route struct {
	gorm.Model

	UserID uint `json:"user_id" gorm:"index"`

	StartName string  `json:"start_name" binding:"required"`
	StartLat  float64 `json:"start_lat"`
	StartLng  float64 `json:"start_lng"`
	EndName   string  `json:"end_name" binding:"required"`
	EndLat    float64 `json:"end_lat"`
	EndLng    float64 `json:"end_lng"`

	Price       float64 `json:"price"`
	VehicleType string  `json:"vehicle_type"`
	Description string  `json:"description,omitempty"`
	IsVerified  bool    `json:"is_verified" gorm:"default:false"`

	// Associations
	Stops   []Stop   `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stops,omitempty"`
	Reviews []Review `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews,omitempty"`
}
