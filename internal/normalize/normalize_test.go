package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"nytarchive/internal/normalize"
)

func mustNormalizer(t *testing.T, required ...string) *normalize.Normalizer {
	t.Helper()
	n, err := normalize.New(required)
	require.NoError(t, err)
	return n
}

func TestNewRejectsUnknownRequiredField(t *testing.T) {
	_, err := normalize.New([]string{"headline", "not_a_column"})
	require.ErrorIs(t, err, normalize.ErrUnknownRequiredField)
	require.Contains(t, err.Error(), "not_a_column")
}

func TestNormalizeSchemaIsComplete(t *testing.T) {
	n := mustNormalizer(t)

	flat, err := n.Normalize(normalize.RawRecord{})
	require.NoError(t, err)

	cols := normalize.Columns()
	require.Len(t, flat, len(cols))
	for _, col := range cols {
		require.Contains(t, flat, col)
	}
}

func TestNormalizeDottedPaths(t *testing.T) {
	n := mustNormalizer(t)

	tests := []struct {
		name string
		raw  normalize.RawRecord
		want any
	}{
		{
			name: "present",
			raw:  normalize.RawRecord{"headline": map[string]any{"main": "X"}},
			want: "X",
		},
		{
			name: "empty object",
			raw:  normalize.RawRecord{"headline": map[string]any{}},
			want: nil,
		},
		{
			name: "key absent",
			raw:  normalize.RawRecord{},
			want: nil,
		},
		{
			name: "intermediate not an object",
			raw:  normalize.RawRecord{"headline": "plain string"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat, err := n.Normalize(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, flat["headline"])
		})
	}
}

func TestNormalizeHeadlineVariants(t *testing.T) {
	n := mustNormalizer(t)

	flat, err := n.Normalize(normalize.RawRecord{
		"headline": map[string]any{
			"main":           "Main title",
			"kicker":         "Kicker",
			"print_headline": "Print title",
		},
		"byline": map[string]any{"original": "By A. Reporter"},
		"multimedia": map[string]any{
			"default": map[string]any{"url": "https://example.com/img.jpg"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "Main title", flat["headline"])
	require.Equal(t, "Kicker", flat["headline_kicker"])
	require.Equal(t, "Print title", flat["headline_print"])
	require.Equal(t, "By A. Reporter", flat["byline"])
	require.Equal(t, "https://example.com/img.jpg", flat["image_url"])
}

func TestNormalizeKeywords(t *testing.T) {
	n := mustNormalizer(t)

	tests := []struct {
		name string
		raw  normalize.RawRecord
		want string
	}{
		{
			name: "joined values",
			raw: normalize.RawRecord{"keywords": []any{
				map[string]any{"value": "a"},
				map[string]any{"value": "b"},
			}},
			want: "a,b",
		},
		{
			name: "missing value sub-field becomes empty element",
			raw: normalize.RawRecord{"keywords": []any{
				map[string]any{"value": "a"},
				map[string]any{"name": "subject"},
			}},
			want: "a,",
		},
		{name: "empty list", raw: normalize.RawRecord{"keywords": []any{}}, want: ""},
		{name: "absent", raw: normalize.RawRecord{}, want: ""},
		{
			name: "malformed element degrades whole field",
			raw:  normalize.RawRecord{"keywords": []any{map[string]any{"value": "a"}, "oops"}},
			want: "",
		},
		{
			name: "non-string value degrades whole field",
			raw:  normalize.RawRecord{"keywords": []any{map[string]any{"value": 3.0}}},
			want: "",
		},
		{
			name: "explicit null value degrades whole field",
			raw: normalize.RawRecord{"keywords": []any{
				map[string]any{"value": "a"},
				map[string]any{"value": nil},
			}},
			want: "",
		},
		{name: "wrong shape entirely", raw: normalize.RawRecord{"keywords": "news"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat, err := n.Normalize(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, flat["keywords"])
		})
	}
}

func TestNormalizeSerializesStructuredValues(t *testing.T) {
	n := mustNormalizer(t)

	original := map[string]any{"person": []any{map[string]any{"lastname": "Reporter"}}}
	flat, err := n.Normalize(normalize.RawRecord{
		"_id":      "nyt://article/1",
		"abstract": original,
	})
	require.NoError(t, err)

	encoded, ok := flat["abstract"].(string)
	require.True(t, ok, "structured value should serialize to a JSON string")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))
	require.Equal(t, original, decoded)
}

func TestNormalizeCopiesScalars(t *testing.T) {
	n := mustNormalizer(t)

	flat, err := n.Normalize(normalize.RawRecord{
		"_id":        "nyt://article/1",
		"word_count": 420.0,
		"source":     "The New York Times",
	})
	require.NoError(t, err)

	require.Equal(t, "nyt://article/1", flat["_id"])
	require.Equal(t, 420.0, flat["word_count"])
	require.Equal(t, "The New York Times", flat["source"])
	require.Nil(t, flat["abstract"])
}

func TestNormalizeRequiredFieldMissing(t *testing.T) {
	n := mustNormalizer(t, "headline")

	_, err := n.Normalize(normalize.RawRecord{"_id": "nyt://article/42"})

	var missing *normalize.MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "headline", missing.Field)
	require.Equal(t, "nyt://article/42", missing.RecordID)
}

func TestNormalizeRequiredFieldUnknownRecordID(t *testing.T) {
	n := mustNormalizer(t, "pub_date")

	_, err := n.Normalize(normalize.RawRecord{})

	var missing *normalize.MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "unknown", missing.RecordID)
}

func TestNormalizeRequiredFieldSatisfied(t *testing.T) {
	n := mustNormalizer(t, normalize.DefaultRequired()...)

	flat, err := n.Normalize(normalize.RawRecord{
		"_id":      "nyt://article/7",
		"headline": map[string]any{"main": "Title"},
		"pub_date": "2024-05-01T00:00:00Z",
	})
	require.NoError(t, err)
	require.Equal(t, "Title", flat["headline"])
}
