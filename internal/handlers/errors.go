package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"burim-estate/internal/database"
	"burim-estate/internal/logger"
	"burim-estate/internal/news"

	"github.com/gin-gonic/gin"
)

// respondError maps store and pipeline errors onto HTTP statuses
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, database.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrPropertyNotFound),
		errors.Is(err, database.ErrInquiryNotFound),
		errors.Is(err, database.ErrNewsNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, news.ErrFeedsUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch news feeds"})
	default:
		log.Error("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// queryLimit reads a positive limit parameter
func queryLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
