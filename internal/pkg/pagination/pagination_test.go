package pagination

import (
	"net/url"
	"testing"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery_Defaults(t *testing.T) {
	p, err := FromQuery(url.Values{})

	require.NoError(t, err)
	assert.Equal(t, Params{Page: 1, Limit: 10}, p)
}

func TestFromQuery_Explicit(t *testing.T) {
	p, err := FromQuery(url.Values{"page": {"3"}, "limit": {"25"}})

	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset())
}

func TestFromQuery_Invalid(t *testing.T) {
	_, err := FromQuery(url.Values{"page": {"0"}, "limit": {"101"}})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "page")
	assert.Contains(t, errs.ToMap(), "limit")
}

func TestParams_TotalPages(t *testing.T) {
	p := Params{Page: 1, Limit: 10}

	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
}
