package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sstent/foodplanner-sub000/services"
	"github.com/sstent/foodplanner-sub000/utils"
)

// respondError maps domain errors onto HTTP statuses. Anything outside
// the taxonomy is a 500 with a generic message; the wrapped cause goes
// to the log via gin's error list.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFoodNotFound),
		errors.Is(err, services.ErrMealNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrMenuNotFound),
		errors.Is(err, services.ErrPlanNotFound),
		errors.Is(err, services.ErrTrackedDayNotFound),
		errors.Is(err, services.ErrTrackedMealNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrInvalidServingSize),
		errors.Is(err, utils.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrFoodInUse),
		errors.Is(err, services.ErrMealInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parseDate reads a YYYY-MM-DD value.
func parseDate(c *gin.Context, value string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// personAndDate reads the person/date query pair used by day views.
func personAndDate(c *gin.Context) (string, time.Time, bool) {
	person := c.Query("person")
	if person == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "person is required"})
		return "", time.Time{}, false
	}
	date, ok := parseDate(c, c.Query("date"))
	return person, date, ok
}
