package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/temple/pkg/types"
)

// Filter keys with special meaning to Fetch. Every other key names a
// top-level JSON field that must equal the given value.
const (
	FilterLimit  = "limit"
	FilterOffset = "offset"
)

// Fetch returns the records matching filter in stored order. String
// comparison is case-insensitive; an array field matches when any element
// does. limit and offset apply after matching. An empty filter matches all.
func (r *Repository[T, P]) Fetch(filter map[string]any) (_ []T, err error) {
	defer r.observe("fetch", time.Now(), &err)
	q, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(records))
	for _, rec := range records {
		if len(q.fields) > 0 {
			fields, err := fieldMap(rec)
			if err != nil {
				return nil, fmt.Errorf("encoding %s record: %w", r.name, err)
			}
			if !q.matches(fields) {
				continue
			}
		}
		results = append(results, rec)
	}

	if q.offset >= len(results) {
		return []T{}, nil
	}
	results = results[q.offset:]
	if q.limit > 0 && q.limit < len(results) {
		results = results[:q.limit]
	}
	return results, nil
}

type query struct {
	limit  int
	offset int
	fields map[string]string
}

func parseFilter(filter map[string]any) (query, error) {
	q := query{fields: make(map[string]string)}
	for k, v := range filter {
		switch k {
		case FilterLimit, FilterOffset:
			n, err := toInt(v)
			if err != nil {
				return q, fmt.Errorf("%w: %s: %v", types.ErrInvalidFilter, k, err)
			}
			if k == FilterLimit {
				q.limit = n
			} else {
				q.offset = n
			}
		default:
			s, ok := scalarString(v)
			if !ok {
				return q, fmt.Errorf("%w: %s must be a scalar", types.ErrInvalidFilter, k)
			}
			q.fields[k] = s
		}
	}
	return q, nil
}

func (q query) matches(fields map[string]any) bool {
	for k, want := range q.fields {
		got, ok := fields[k]
		if !ok {
			return false
		}
		if !valueMatches(got, want) {
			return false
		}
	}
	return true
}

func valueMatches(got any, want string) bool {
	if list, ok := got.([]any); ok {
		for _, el := range list {
			if valueMatches(el, want) {
				return true
			}
		}
		return false
	}
	s, ok := scalarString(got)
	return ok && strings.EqualFold(s, want)
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "null", true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func toInt(v any) (int, error) {
	var n int
	switch v := v.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		n = int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, err
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, err
		}
		n = i
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}
