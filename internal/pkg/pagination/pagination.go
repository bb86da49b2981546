package pagination

import (
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// FromQuery reads page and limit, applying defaults for missing values.
func FromQuery(q url.Values) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	var errs validator.ValidationErrors

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			errs.Add("page", "page must be a positive integer")
		} else {
			p.Page = page
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || !validator.IntBetween(limit, 1, MaxLimit) {
			errs.Add("limit", "limit must be between 1 and 100")
		} else {
			p.Limit = limit
		}
	}

	if err := errs.Err(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Params) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
