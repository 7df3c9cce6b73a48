package jogging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultPage  = 0
	DefaultLimit = 10
)

var validate = validator.New()

// Params are the raw list parameters. A nil field means the parameter was absent.
type Params struct {
	Page   *string
	Count  *string
	Filter *string
}

// Plan normalizes list parameters into a Query for ownerID.
func Plan(ownerID string, p Params) (Query, error) {
	q := Query{
		OwnerID: ownerID,
		Page:    DefaultPage,
		Limit:   DefaultLimit,
		Filter:  p.Filter,
	}

	if p.Page != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*p.Page))
		if err != nil {
			return Query{}, fmt.Errorf("%w: page %q is not an integer", ErrInvalidPaging, *p.Page)
		}
		q.Page = n
	}
	if p.Count != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*p.Count))
		if err != nil {
			return Query{}, fmt.Errorf("%w: count %q is not an integer", ErrInvalidPaging, *p.Count)
		}
		q.Limit = n
	}

	if err := validate.Struct(q); err != nil {
		return Query{}, ErrInvalidPaging
	}
	return q, nil
}
