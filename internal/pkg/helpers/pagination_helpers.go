package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based

	// MaxPage bounds the page number so (page-1)*MaxPageSize stays far
	// inside int64; any page that large is past the end of the data.
	MaxPage = math.MaxInt32
)

// NormalizePage applies the paging defaults: page below 1 becomes 1, a page
// above MaxPage becomes MaxPage, a non-positive limit becomes DefaultPageSize
// and a limit above MaxPageSize is capped.
func NormalizePage(page, limit int) (int, int) {
	switch {
	case page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return page, limit
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	page, limit = NormalizePage(page, size)
	offset = uint64(page-1) * uint64(limit)
	return offset, limit
}

// TotalPages returns ceil(totalItems/limit), zero when there are no items.
func TotalPages(totalItems int64, limit int) int {
	if totalItems <= 0 {
		return 0
	}
	_, limit = NormalizePage(1, limit)
	return int((totalItems + int64(limit) - 1) / int64(limit))
}

// ParsePaginationParams extracts page and limit from the query string.
// Malformed values fall back to the defaults.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		limit = DefaultPageSize
	}
	return NormalizePage(page, limit)
}
