// Package normalize flattens raw Article Search documents into a fixed
// tabular schema.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RawRecord is one article exactly as decoded from the Article Search
// response body: values are string, float64, bool, nil, map[string]any
// or []any.
type RawRecord = map[string]any

// FlatRecord maps every catalog column to a scalar value. The key set is
// identical for every record produced in a run.
type FlatRecord = map[string]any

type fieldKind int

const (
	// kindPath walks a dotted path through nested objects; any missing
	// segment or non-object value resolves to nil.
	kindPath fieldKind = iota
	// kindKeywords joins keywords[i].value into a comma-separated string.
	kindKeywords
	// kindCopy copies a top-level value, JSON-encoding objects and arrays.
	kindCopy
)

type fieldSpec struct {
	name string
	kind fieldKind
	path string
}

var catalog = []fieldSpec{
	{name: "_id", kind: kindCopy},
	{name: "headline", kind: kindPath, path: "headline.main"},
	{name: "headline_kicker", kind: kindPath, path: "headline.kicker"},
	{name: "headline_print", kind: kindPath, path: "headline.print_headline"},
	{name: "byline", kind: kindPath, path: "byline.original"},
	{name: "image_url", kind: kindPath, path: "multimedia.default.url"},
	{name: "keywords", kind: kindKeywords},
	{name: "abstract", kind: kindCopy},
	{name: "snippet", kind: kindCopy},
	{name: "source", kind: kindCopy},
	{name: "print_page", kind: kindCopy},
	{name: "print_section", kind: kindCopy},
	{name: "document_type", kind: kindCopy},
	{name: "web_url", kind: kindCopy},
	{name: "pub_date", kind: kindCopy},
	{name: "news_desk", kind: kindCopy},
	{name: "section_name", kind: kindCopy},
	{name: "subsection_name", kind: kindCopy},
	{name: "type_of_material", kind: kindCopy},
	{name: "word_count", kind: kindCopy},
	{name: "uri", kind: kindCopy},
}

// Columns returns the output schema in declaration order.
func Columns() []string {
	cols := make([]string, len(catalog))
	for i, f := range catalog {
		cols[i] = f.name
	}
	return cols
}

// DefaultRequired lists the fields every collected article must carry.
func DefaultRequired() []string {
	return []string{"_id", "headline", "pub_date"}
}

// ErrUnknownRequiredField is returned by New when a required field name is
// not a catalog column.
var ErrUnknownRequiredField = errors.New("required field is not a catalog column")

// MissingFieldError reports a required field that resolved to null after
// extraction.
type MissingFieldError struct {
	RecordID string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing from article %s", e.Field, e.RecordID)
}

// Normalizer converts raw documents into flat records and enforces the
// required-field policy. It holds no mutable state and is safe for use
// from multiple goroutines.
type Normalizer struct {
	required map[string]struct{}
}

// New creates a normalizer that rejects records where any of the given
// catalog columns resolves to null.
func New(required []string) (*Normalizer, error) {
	known := make(map[string]struct{}, len(catalog))
	for _, f := range catalog {
		known[f.name] = struct{}{}
	}

	req := make(map[string]struct{}, len(required))
	for _, name := range required {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRequiredField, name)
		}
		req[name] = struct{}{}
	}

	return &Normalizer{required: req}, nil
}

// Normalize extracts every catalog column from raw. The returned record
// always contains the full column set; absent source fields resolve to
// nil unless they are required, in which case a MissingFieldError is
// returned.
func (n *Normalizer) Normalize(raw RawRecord) (FlatRecord, error) {
	flat := make(FlatRecord, len(catalog))

	for _, f := range catalog {
		switch f.kind {
		case kindPath:
			flat[f.name] = lookupPath(raw, f.path)
		case kindKeywords:
			flat[f.name] = joinKeywords(raw[f.name])
		case kindCopy:
			v, err := copyValue(raw, f.name)
			if err != nil {
				return nil, err
			}
			flat[f.name] = v
		}
	}

	// Checked after extraction so the error names the output column, not
	// the source path. Catalog order keeps the reported field stable.
	for _, f := range catalog {
		if _, ok := n.required[f.name]; !ok {
			continue
		}
		if flat[f.name] == nil {
			return nil, &MissingFieldError{RecordID: RecordID(raw), Field: f.name}
		}
	}

	return flat, nil
}

// RecordID returns the article identifier used in diagnostics, or
// "unknown" when the record carries none.
func RecordID(raw RawRecord) string {
	if id, ok := raw["_id"].(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// lookupPath walks a dotted path through nested objects. A missing key or
// a non-object intermediate value yields nil rather than an error.
func lookupPath(raw RawRecord, path string) any {
	var cur any = raw
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = obj[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// joinKeywords flattens the keywords list into "a,b,c". Absent or empty
// lists yield an empty string, and so does any element of an unexpected
// shape; keyword trouble never fails the record. An element without a
// value sub-field contributes an empty string, but a value of the wrong
// type (including an explicit null) degrades the whole field.
func joinKeywords(v any) string {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return ""
	}

	parts := make([]string, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return ""
		}
		val, present := obj["value"]
		if !present {
			parts = append(parts, "")
			continue
		}
		s, ok := val.(string)
		if !ok {
			return ""
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ",")
}

// copyValue copies a top-level field, serializing nested structures to a
// JSON string so every output value stays scalar. Absent fields copy as
// nil.
func copyValue(raw RawRecord, name string) (any, error) {
	v, ok := raw[name]
	if !ok {
		return nil, nil
	}

	switch v.(type) {
	case map[string]any, []any:
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", name, err)
		}
		return string(enc), nil
	default:
		return v, nil
	}
}
