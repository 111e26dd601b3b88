package request

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination reads page and pageSize, defaulting to 1 and 20.
func Pagination(c *gin.Context) (int, int) {
	page := IntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := IntQuery(c, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func IntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func StringQuery(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}

// BoolQuery returns nil when the parameter is absent or not a boolean.
func BoolQuery(c *gin.Context, key string) *bool {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

const dateLayout = "2006-01-02"

// TimeQuery accepts RFC 3339 timestamps and plain dates.
func TimeQuery(c *gin.Context, key string) *time.Time {
	t, _ := parseTime(c.Query(key))
	return t
}

// EndTimeQuery reads the inclusive upper bound of a range. A plain date
// covers the whole day, down to the microsecond precision postgres stores.
func EndTimeQuery(c *gin.Context, key string) *time.Time {
	t, dateOnly := parseTime(c.Query(key))
	if t == nil || !dateOnly {
		return t
	}
	end := t.AddDate(0, 0, 1).Add(-time.Microsecond)
	return &end
}

func parseTime(v string) (*time.Time, bool) {
	if v == "" {
		return nil, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, false
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &t, true
	}
	return nil, false
}
