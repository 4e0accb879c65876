package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// defaultRangeDays is the dashboard window when no range is given.
const defaultRangeDays = 30

// parseDateRange reads start/end query params as ISO dates. A missing
// range defaults to the trailing month ending today.
func parseDateRange(c *gin.Context) (domain.DateRange, error) {
	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(defaultRangeDays - 1))

	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid start date %q", raw)
		}
		start = parsed
	}
	if raw := strings.TrimSpace(c.Query("end")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid end date %q", raw)
		}
		end = parsed
	}
	if end.Before(start) {
		return domain.DateRange{}, fmt.Errorf("end date precedes start date")
	}

	return domain.DateRange{Start: start, End: end}, nil
}
