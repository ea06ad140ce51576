package models

import (
	"gorm.io/gorm"
)

// Stop is an intermediate point along a route. StopOrder establishes the
// sequence from start to end and is always dense 1..N: the update flow
// replaces a route's whole stop set rather than patching single entries.
type Stop struct {
	gorm.Model

	RouteID uint `json:"route_id" gorm:"index"`

	Name      string  `json:"name" binding:"required"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	StopOrder int     `json:"stop_order" gorm:"column:stop_order"`
}
