package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parking-marketplace-backend/internal/engine"
)

// GetSpaces handles GET /api/spaces: the raw candidate list, no scoring.
func (h *Handler) GetSpaces(c *gin.Context) {
	spaces, err := h.store.CandidateSpaces(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parking spaces"})
		return
	}
	c.JSON(http.StatusOK, spaces)
}

// GetSortedSpaces handles GET /api/spaces/sorted: the simple ranking path
// with explicit sort key and optional distance/price caps.
func (h *Handler) GetSortedSpaces(c *gin.Context) {
	loc, ok := parseLocation(c)
	if !ok {
		return
	}

	prefs := engine.Preferences{SortBy: c.DefaultQuery("sort_by", engine.SortByDistance)}
	switch prefs.SortBy {
	case engine.SortByDistance, engine.SortByPrice, engine.SortByRating:
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid sort_by"})
		return
	}

	if v := c.Query("max_distance_km"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid max_distance_km"})
			return
		}
		prefs.MaxDistanceKm = f
	}
	if v := c.Query("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		prefs.MaxPricePerHour = f
	}

	spaces, err := h.store.CandidateSpaces(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parking spaces"})
		return
	}

	c.JSON(http.StatusOK, engine.RecommendedSpaces(spaces, loc, prefs))
}

// GetNearestSpace handles GET /api/spaces/nearest.
func (h *Handler) GetNearestSpace(c *gin.Context) {
	loc, ok := parseLocation(c)
	if !ok {
		return
	}

	spaces, err := h.store.CandidateSpaces(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parking spaces"})
		return
	}

	nearest := engine.NearestSpace(spaces, loc)
	if nearest == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No bookable space found"})
		return
	}
	c.JSON(http.StatusOK, nearest)
}
