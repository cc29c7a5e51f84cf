package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parking-marketplace-backend/internal/engine"
)

// GetRecommendations handles GET /api/recommendations. With a user_id the
// personalized path runs; otherwise the plain AI-scored path. Candidate
// spaces always come fresh from the store.
func (h *Handler) GetRecommendations(c *gin.Context) {
	loc, ok := parseLocation(c)
	if !ok {
		return
	}

	spaces, err := h.store.CandidateSpaces(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parking spaces"})
		return
	}

	userID := c.Query("user_id")
	if userID != "" {
		results := h.engine.PersonalizedRecommend(c.Request.Context(), userID, spaces, loc)
		c.JSON(http.StatusOK, results)
		return
	}

	var opts engine.Options
	if v := c.Query("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid max_results"})
			return
		}
		opts.MaxResults = n
	}
	if v := c.Query("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid min_score"})
			return
		}
		if f <= 0 {
			f = -1 // explicit "no floor"
		}
		opts.MinScore = f
	}
	if v := c.Query("historical"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid historical flag"})
			return
		}
		opts.IncludeHistorical = &include
	}

	results := h.engine.Recommend(c.Request.Context(), spaces, loc, "", opts)
	c.JSON(http.StatusOK, results)
}

// parseLocation reads optional lat/lng query parameters. Both absent is
// valid (distance degrades to zero); one without the other is a client
// error. Returns ok=false after writing the error response.
func parseLocation(c *gin.Context) (*engine.Location, bool) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		return nil, true
	}
	if latStr == "" || lngStr == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be provided together"})
		return nil, false
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid lat/lng"})
		return nil, false
	}
	return &engine.Location{Latitude: lat, Longitude: lng}, true
}
