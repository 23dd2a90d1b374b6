// Package columns maps the header row of a portfolio disclosure spreadsheet onto
// the canonical holding fields (identifier, name, weight).
package columns

import "encoding/json"

// Field is a canonical holding field a spreadsheet column can be mapped to
type Field string

const (
	// FieldIdentifier is the instrument identifier column (ISIN)
	FieldIdentifier Field = "ISIN"
	// FieldName is the instrument or issuer name column
	FieldName Field = "Name"
	// FieldWeight is the percentage-of-AUM column
	FieldWeight Field = "Weight"
)

// Fields lists every canonical field in assignment-tie order
var Fields = []Field{FieldIdentifier, FieldName, FieldWeight}

// Entry is one matched header in a Mapping
type Entry struct {
	Index  int    `json:"index"`  // Position of the header in the input row
	Header string `json:"header"` // Header text exactly as it appeared in the source
	Field  Field  `json:"field"`
	Score  int    `json:"score"`
}

// Mapping is the result of normalizing a header row.
// Entries are kept in input order and no two entries share a Field.
type Mapping struct {
	entries []Entry
}

// Entries returns the matched headers in input order
func (m Mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of matched headers
func (m Mapping) Len() int {
	return len(m.entries)
}

// Field returns the canonical field a header was mapped to
func (m Mapping) Field(header string) (Field, bool) {
	for _, e := range m.entries {
		if e.Header == header {
			return e.Field, true
		}
	}
	return "", false
}

// Header returns the header mapped to a canonical field
func (m Mapping) Header(field Field) (string, bool) {
	if e, ok := m.entry(field); ok {
		return e.Header, true
	}
	return "", false
}

// Index returns the column position mapped to a canonical field
func (m Mapping) Index(field Field) (int, bool) {
	if e, ok := m.entry(field); ok {
		return e.Index, true
	}
	return -1, false
}

// Has reports whether a canonical field was matched
func (m Mapping) Has(field Field) bool {
	_, ok := m.entry(field)
	return ok
}

// AsMap returns the mapping keyed by original header text
func (m Mapping) AsMap() map[string]Field {
	out := make(map[string]Field, len(m.entries))
	for _, e := range m.entries {
		out[e.Header] = e.Field
	}
	return out
}

// MarshalJSON renders the mapping as its entry list
func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}

func (m Mapping) entry(field Field) (Entry, bool) {
	for _, e := range m.entries {
		if e.Field == field {
			return e, true
		}
	}
	return Entry{}, false
}
