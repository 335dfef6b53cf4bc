package pagination

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

var (
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// New validates page/limit. Limits above MaxLimit are capped rather than rejected.
func New(page, limit int) (Params, error) {
	if page < DefaultPage {
		return Params{}, ErrInvalidPage
	}
	if limit < MinLimit {
		return Params{}, ErrInvalidLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, nil
}

// FromQuery reads page/limit from the query string, falling back to defaults when absent.
// Non-numeric values are reported as invalid.
func FromQuery(c *gin.Context) (page, limit int, err error) {
	page, err = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil {
		return 0, 0, ErrInvalidPage
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		return 0, 0, ErrInvalidLimit
	}
	return page, limit, nil
}
