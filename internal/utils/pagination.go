// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationParams is optional: a zero Limit means "return every row".
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func GetPaginationParams(c *gin.Context, maxLimit int) PaginationParams {
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	// Validate and set defaults
	if limit < 0 {
		limit = 0
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if page < 1 {
		page = 1
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

func (p PaginationParams) Offset() int {
	if p.Limit == 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func SetPaginationHeaders(c *gin.Context, params PaginationParams, count int) {
	if params.Limit == 0 {
		return
	}
	c.Header("X-Page", strconv.Itoa(params.Page))
	c.Header("X-Per-Page", strconv.Itoa(params.Limit))
	c.Header("X-Page-Count", strconv.Itoa(count))
}
