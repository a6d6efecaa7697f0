package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article represents the canonical structure stored in Elasticsearch.
type Article struct {
	ID             string    `json:"id"`
	Headline       string    `json:"headline"`
	HeadlineKicker string    `json:"headline_kicker,omitempty"`
	Byline         string    `json:"byline,omitempty"`
	Abstract       string    `json:"abstract,omitempty"`
	Snippet        string    `json:"snippet,omitempty"`
	Source         string    `json:"source,omitempty"`
	WebURL         string    `json:"web_url,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	PubDate        time.Time `json:"pub_date"`
	NewsDesk       string    `json:"news_desk,omitempty"`
	SectionName    string    `json:"section_name,omitempty"`
	SubsectionName string    `json:"subsection_name,omitempty"`
	DocumentType   string    `json:"document_type,omitempty"`
	TypeOfMaterial string    `json:"type_of_material,omitempty"`
	WordCount      int       `json:"word_count"`
	URI            string    `json:"uri,omitempty"`
	Keywords       []string  `json:"keywords,omitempty"`
}

// FromFlat builds an Article from a normalized flat record. Records
// without a usable identifier get a generated one so they can still be
// indexed.
func FromFlat(flat map[string]any) Article {
	a := Article{
		ID:             asString(flat["_id"]),
		Headline:       asString(flat["headline"]),
		HeadlineKicker: asString(flat["headline_kicker"]),
		Byline:         asString(flat["byline"]),
		Abstract:       asString(flat["abstract"]),
		Snippet:        asString(flat["snippet"]),
		Source:         asString(flat["source"]),
		WebURL:         asString(flat["web_url"]),
		ImageURL:       asString(flat["image_url"]),
		PubDate:        parsePubDate(asString(flat["pub_date"])),
		NewsDesk:       asString(flat["news_desk"]),
		SectionName:    asString(flat["section_name"]),
		SubsectionName: asString(flat["subsection_name"]),
		DocumentType:   asString(flat["document_type"]),
		TypeOfMaterial: asString(flat["type_of_material"]),
		WordCount:      asInt(flat["word_count"]),
		URI:            asString(flat["uri"]),
		Keywords:       splitKeywords(asString(flat["keywords"])),
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return a
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	default:
		return 0
	}
}

func splitKeywords(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05-0700",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}
