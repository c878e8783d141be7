package shopserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

// envelope is the success body the storefront and the admin panel expect.
type envelope struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
}

// pageEnvelope is the paginated success body.
type pageEnvelope struct {
	Message       string `json:"message"`
	Success       bool   `json:"success"`
	Docs          any    `json:"docs"`
	TotalDocs     int64  `json:"totalDocs"`
	Limit         int    `json:"limit"`
	TotalPages    int    `json:"totalPages"`
	Page          int    `json:"page"`
	PagingCounter int    `json:"pagingCounter"`
	HasPrevPage   bool   `json:"hasPrevPage"`
	HasNextPage   bool   `json:"hasNextPage"`
	PrevPage      *int   `json:"prevPage"`
	NextPage      *int   `json:"nextPage"`
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Message: message, Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Message: message, Success: true})
}

func respondPage[T, U any](c *gin.Context, message string, page pagination.Page[T], fn func(T) U) {
	mapped := pagination.Map(page, fn)
	body := pageEnvelope{
		Message:       message,
		Success:       true,
		Docs:          mapped.Items,
		TotalDocs:     mapped.Total,
		Limit:         mapped.Limit,
		TotalPages:    mapped.TotalPages(),
		Page:          mapped.Page,
		PagingCounter: mapped.PagingCounter(),
		HasPrevPage:   mapped.HasPrev(),
		HasNextPage:   mapped.HasNext(),
	}
	if body.HasPrevPage {
		prev := mapped.Page - 1
		body.PrevPage = &prev
	}
	if body.HasNextPage {
		next := mapped.Page + 1
		body.NextPage = &next
	}
	c.JSON(http.StatusOK, body)
}

// pageQuery reads page, limit and sort. Unparsable numbers fall back to the defaults.
func pageQuery(c *gin.Context) pagination.Query {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return pagination.Query{Page: page, Limit: limit, Sort: c.Query("sort")}.Normalize()
}

// optionalBool parses a query flag; an absent flag returns nil.
func optionalBool(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	return &value, nil
}
