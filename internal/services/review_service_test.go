package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weyala/internal/models"
)

func TestSubmitReviewDuplicate(t *testing.T) {
	routes, _, db := newRouteService(t, time.Minute)
	svc := NewReviewService(db)

	require.True(t, routes.Submit(1, boleToPiassa()).Success)
	id := firstRouteID(t, routes)

	require.True(t, svc.Submit(2, id, 5, "quick and cheap").Success)

	res := svc.Submit(2, id, 3, "changed my mind")
	require.False(t, res.Success)
	assert.Equal(t, CodeDuplicateReview, res.Code)
	assert.Equal(t, "You have already reviewed this route.", res.Message)

	// No second row was created.
	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("route_id = ? AND user_id = ?", id, 2).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// A different user may still review the same route.
	assert.True(t, svc.Submit(3, id, 4, "").Success)
}

func TestSubmitReviewPreconditions(t *testing.T) {
	routes, _, db := newRouteService(t, time.Minute)
	svc := NewReviewService(db)

	require.True(t, routes.Submit(1, boleToPiassa()).Success)
	id := firstRouteID(t, routes)

	res := svc.Submit(0, id, 4, "")
	assert.Equal(t, CodeUnauthenticated, res.Code)

	for _, rating := range []int{0, -1, 6} {
		res = svc.Submit(2, id, rating, "")
		require.False(t, res.Success)
		assert.Equal(t, CodeValidationError, res.Code)
	}

	res = svc.Submit(2, id+999, 4, "")
	assert.Equal(t, CodeNotFound, res.Code)
}

func TestListForRoute(t *testing.T) {
	routes, _, db := newRouteService(t, time.Minute)
	svc := NewReviewService(db)

	require.True(t, routes.Submit(1, boleToPiassa()).Success)
	id := firstRouteID(t, routes)

	require.True(t, svc.Submit(2, id, 5, "great").Success)
	require.True(t, svc.Submit(3, id, 2, "crowded").Success)

	res := svc.ListForRoute(id)
	require.True(t, res.Success)
	assert.Len(t, res.Data.([]models.Review), 2)

	// Unknown routes simply have no reviews.
	res = svc.ListForRoute(id + 999)
	require.True(t, res.Success)
	assert.Empty(t, res.Data.([]models.Review))
}
