package airtable

import (
	"net/url"
	"strconv"
)

// Direction is the sort order of a list request
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the wire value of the direction
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection maps "desc"/"descending" to Descending and everything else to Ascending
func ParseDirection(s string) Direction {
	switch s {
	case "desc", "descending", "DESC":
		return Descending
	default:
		return Ascending
	}
}

// Sort orders list results by a single field
type Sort struct {
	Field     string
	Direction Direction
}

// ListRecords accumulates the parameters of a list request.
//
// It is a value type: every With* method returns a modified copy and leaves
// the receiver untouched, and List takes the query by value. A query handed
// to List cannot be altered by the caller while it is in flight.
type ListRecords struct {
	base            string
	table           string
	maxRecords      *int
	view            string
	sort            *Sort
	filterByFormula string
	fields          []string
}

// NewListRecords starts a query against a table of a base.
// The table may be given by name or by ID.
func NewListRecords(base, table string) ListRecords {
	return ListRecords{base: base, table: table}
}

// Base returns the target base ID
func (q ListRecords) Base() string { return q.base }

// Table returns the target table name or ID
func (q ListRecords) Table() string { return q.table }

// MaxRecords returns the total record cap and whether one is set
func (q ListRecords) MaxRecords() (int, bool) {
	if q.maxRecords == nil {
		return 0, false
	}
	return *q.maxRecords, true
}

// WithMaxRecords caps the total number of records returned across all pages.
// Negative values are treated as zero.
func (q ListRecords) WithMaxRecords(n int) ListRecords {
	if n < 0 {
		n = 0
	}
	q.maxRecords = &n
	return q
}

// WithView restricts results to a view and uses its ordering unless a sort is set.
func (q ListRecords) WithView(view string) ListRecords {
	q.view = view
	return q
}

// WithSort orders results by field, overriding the view order
func (q ListRecords) WithSort(field string, direction Direction) ListRecords {
	q.sort = &Sort{Field: field, Direction: direction}
	return q
}

// WithFilterByFormula keeps only records for which the formula is truthy.
// The formula is forwarded verbatim.
func (q ListRecords) WithFilterByFormula(formula string) ListRecords {
	q.filterByFormula = formula
	return q
}

// WithFields projects the response onto the named columns
func (q ListRecords) WithFields(fields ...string) ListRecords {
	q.fields = append([]string(nil), fields...)
	return q
}

// Values compiles the query parameters. maxRecords and offset are not part of
// it; they are decided per page.
func (q ListRecords) Values() url.Values {
	v := url.Values{}
	if q.view != "" {
		v.Set("view", q.view)
	}
	if q.sort != nil {
		v.Set("sort[0][field]", q.sort.Field)
		v.Set("sort[0][direction]", q.sort.Direction.String())
	}
	if q.filterByFormula != "" {
		v.Set("filterByFormula", q.filterByFormula)
	}
	for _, f := range q.fields {
		v.Add("fields[]", f)
	}
	return v
}

// Encode returns the query string in sorted key order
func (q ListRecords) Encode() string {
	return q.Values().Encode()
}

// pageValues returns a copy of base with the per-page parameters applied
func pageValues(base url.Values, maxRecords int, offset string) url.Values {
	v := make(url.Values, len(base)+2)
	for k, vals := range base {
		v[k] = append([]string(nil), vals...)
	}
	if maxRecords > 0 {
		v.Set("maxRecords", strconv.Itoa(maxRecords))
	}
	if offset != "" {
		v.Set("offset", offset)
	}
	return v
}
