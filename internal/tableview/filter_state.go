package tableview

import (
	"fmt"
	"maps"
	"net/url"
)

// Query is one evaluation of a table view.
type Query struct {
	Filters map[Field]string
	Search  string
	Page    int
	Size    int
}

// FilterState holds the filter selections a header and a table share. Any
// change to a filter or the search text moves the cursor back to page 0.
type FilterState struct {
	filters map[Field]string
	search  string
	page    int
	size    int
}

func NewFilterState(size int) *FilterState {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &FilterState{filters: make(map[Field]string), size: size}
}

func (fs *FilterState) SetFilter(f Field, value string) {
	if IsAll(value) {
		delete(fs.filters, f)
	} else {
		fs.filters[f] = value
	}
	fs.page = 0
}

func (fs *FilterState) ClearFilter(f Field) {
	delete(fs.filters, f)
	fs.page = 0
}

func (fs *FilterState) SetSearch(s string) {
	fs.search = s
	fs.page = 0
}

func (fs *FilterState) SetPage(p int) {
	if p < 0 {
		p = 0
	}
	fs.page = p
}

func (fs *FilterState) SetSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	fs.size = n
	fs.page = 0
}

func (fs *FilterState) Filter(f Field) string {
	if v, ok := fs.filters[f]; ok {
		return v
	}
	return "All"
}

func (fs *FilterState) Search() string { return fs.search }
func (fs *FilterState) Page() int      { return fs.page }
func (fs *FilterState) Size() int      { return fs.size }

func (fs *FilterState) Reset() {
	clear(fs.filters)
	fs.search = ""
	fs.page = 0
}

func (fs *FilterState) Query() Query {
	return Query{
		Filters: maps.Clone(fs.filters),
		Search:  fs.search,
		Page:    fs.page,
		Size:    fs.size,
	}
}

// FromValues loads filters and search from URL query values. Keys listed in
// reserved are skipped. Unknown keys fail with ErrUnknownField.
func FromValues(values url.Values, size int, reserved ...string) (*FilterState, error) {
	skip := map[string]bool{"search": true, "page": true, "size": true}
	for _, k := range reserved {
		skip[k] = true
	}

	fs := NewFilterState(size)
	for key, vals := range values {
		if skip[key] || len(vals) == 0 {
			continue
		}
		f, ok := ParseField(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		fs.SetFilter(f, vals[0])
	}
	fs.SetSearch(values.Get("search"))
	return fs, nil
}
