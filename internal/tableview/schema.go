package tableview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sarpras/pkg/sanitizer"
)

const DefaultPageSize = 10

var ErrUnknownField = errors.New("unknown filter field")

// IsAll reports whether v is the "no constraint" sentinel.
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "All" || v == "ALL"
}

type column[T any] struct {
	field   Field
	label   string
	get     func(T) string
	numeric bool
}

// Schema maps the fields of one resource to accessors.
type Schema[T any] struct {
	name       string
	columns    []column[T]
	index      map[Field]int
	searchable []int
}

func NewSchema[T any](name string) *Schema[T] {
	return &Schema[T]{name: name, index: make(map[Field]int)}
}

func (s *Schema[T]) Name() string { return s.name }

// Text adds a string column.
func (s *Schema[T]) Text(f Field, label string, get func(T) string) *Schema[T] {
	return s.add(column[T]{field: f, label: label, get: get})
}

// Number adds a column compared numerically when filtered.
func (s *Schema[T]) Number(f Field, label string, get func(T) int64) *Schema[T] {
	return s.add(column[T]{
		field:   f,
		label:   label,
		get:     func(item T) string { return strconv.FormatInt(get(item), 10) },
		numeric: true,
	})
}

func (s *Schema[T]) add(c column[T]) *Schema[T] {
	if _, dup := s.index[c.field]; dup {
		panic(fmt.Sprintf("tableview: %s: duplicate field %q", s.name, c.field))
	}
	s.index[c.field] = len(s.columns)
	s.columns = append(s.columns, c)
	return s
}

// Search marks the fields free-text search looks at.
func (s *Schema[T]) Search(fields ...Field) *Schema[T] {
	for _, f := range fields {
		i, ok := s.index[f]
		if !ok {
			panic(fmt.Sprintf("tableview: %s: search field %q not declared", s.name, f))
		}
		s.searchable = append(s.searchable, i)
	}
	return s
}

func (s *Schema[T]) Has(f Field) bool {
	_, ok := s.index[f]
	return ok
}

// Fields lists the declared fields in column order.
func (s *Schema[T]) Fields() []Field {
	out := make([]Field, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.field
	}
	return out
}

// Headers lists column labels in column order.
func (s *Schema[T]) Headers() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.label
	}
	return out
}

// Row renders item as one string per column.
func (s *Schema[T]) Row(item T) []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.get(item)
	}
	return out
}

// Value reads field f of item; unknown fields read as "".
func (s *Schema[T]) Value(item T, f Field) string {
	i, ok := s.index[f]
	if !ok {
		return ""
	}
	return s.columns[i].get(item)
}

// Check rejects filters on fields this schema does not declare.
func (s *Schema[T]) Check(q Query) error {
	for f := range q.Filters {
		if !s.Has(f) {
			return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, s.name, f)
		}
	}
	return nil
}

func (s *Schema[T]) matches(item T, filters map[Field]string, terms []string) bool {
	for f, want := range filters {
		if IsAll(want) {
			continue
		}
		i, ok := s.index[f]
		if !ok {
			return false
		}
		c := s.columns[i]
		if !equal(c.get(item), want, c.numeric) {
			return false
		}
	}
	if len(terms) == 0 {
		return true
	}

	haystack := make([]string, len(s.searchable))
	for j, i := range s.searchable {
		haystack[j] = strings.ToLower(s.columns[i].get(item))
	}
	for _, term := range terms {
		found := false
		for _, h := range haystack {
			if strings.Contains(h, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equal(got, want string, numeric bool) bool {
	if !numeric {
		return got == strings.TrimSpace(want)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(got), 64)
	if err != nil {
		return false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(want), 64)
	if err != nil {
		return false
	}
	return a == b
}

// Filter returns every item passing q's filters and search, in source order.
func (s *Schema[T]) Filter(items []T, q Query) []T {
	terms := sanitizer.NormalizeSearch(q.Search)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if s.matches(item, q.Filters, terms) {
			out = append(out, item)
		}
	}
	return out
}

// Apply filters items and cuts the requested page.
func (s *Schema[T]) Apply(items []T, q Query) Page[T] {
	return Paginate(s.Filter(items, q), q.Page, q.Size)
}

// IsNumeric reports whether f is a numeric column.
func (s *Schema[T]) IsNumeric(f Field) bool {
	i, ok := s.index[f]
	return ok && s.columns[i].numeric
}
