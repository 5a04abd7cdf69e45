package actresslib

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Codec serializes the record list to JSON and CSV and imports either
// format back. Both import paths are all-or-nothing: a structurally
// invalid payload fails with ErrInvalidFormat and leaves the existing
// store untouched. Imports replace the whole store in one operation, so
// callers must confirm before invoking.
type Codec struct {
	store *RecordStore
	now   func() time.Time
}

// NewCodec creates a Codec bound to the given store.
func NewCodec(store *RecordStore) *Codec {
	return &Codec{store: store, now: time.Now}
}

// csvHeader is the fixed column set of the CSV export. The CSV form is
// intentionally lossy: Created is a date string, Photos and Links are
// counts, and websites are not represented at all.
var csvHeader = []string{"Name", "Category", "Tags", "Views", "Photos", "Links", "Created"}

// ExportJSON renders the list as a pretty-printed JSON array that
// round-trips through ImportJSON field for field.
func (c *Codec) ExportJSON(list []Record) ([]byte, error) {
	if list == nil {
		list = []Record{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	return data, nil
}

// ExportCSV renders the list as CSV with one row per record. Tags are
// joined with ';'.
func (c *Codec) ExportCSV(list []Record) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	for _, r := range list {
		row := []string{
			r.Name,
			r.Category,
			strings.Join(r.Tags, ";"),
			strconv.Itoa(r.Views),
			strconv.Itoa(len(r.Gallery)),
			strconv.Itoa(len(r.Websites)),
			r.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return []byte(b.String()), nil
}

// ImportJSON parses a JSON array of records, validates its structure,
// and replaces the entire store.
func (c *Codec) ImportJSON(text []byte) (int, error) {
	list, err := ParseJSONRecords(text)
	if err != nil {
		return 0, err
	}
	if err := c.store.ReplaceAll(list); err != nil {
		return 0, err
	}
	return len(list), nil
}

// ImportCSV parses CSV text and replaces the entire store.
func (c *Codec) ImportCSV(text []byte) (int, error) {
	list, err := parseCSVRecords(text, c.now())
	if err != nil {
		return 0, err
	}
	if err := c.store.ReplaceAll(list); err != nil {
		return 0, err
	}
	return len(list), nil
}

// jsonRecordShape mirrors Record with pointer-typed array fields so
// absent keys can be told apart from present-but-empty ones.
type jsonRecordShape struct {
	Slug     string     `json:"slug"`
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Websites *[]Website `json:"websites"`
	Gallery  *[]string  `json:"gallery"`
}

// ParseJSONRecords parses and validates a JSON export payload. Every
// element must carry a non-empty slug, name and category, and
// array-typed websites and gallery fields.
func ParseJSONRecords(text []byte) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(text, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	list := make([]Record, 0, len(raw))
	for i, elem := range raw {
		var shape jsonRecordShape
		if err := json.Unmarshal(elem, &shape); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidFormat, i, err)
		}
		if shape.Slug == "" || shape.Name == "" || shape.Category == "" ||
			shape.Websites == nil || shape.Gallery == nil {
			return nil, fmt.Errorf("%w: element %d is missing required fields", ErrInvalidFormat, i)
		}
		var r Record
		if err := json.Unmarshal(elem, &r); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidFormat, i, err)
		}
		list = append(list, r)
	}
	return list, nil
}

// parseCSVRecords parses CSV text into records. The first row is a
// header and is discarded. The slug is derived from the Name column;
// the 5th column, when present, becomes both the single gallery entry
// and the thumb; websites are always empty. Rows without a name are
// dropped. Timestamps are not representable in the CSV form, so
// CreatedAt is set to now.
func parseCSVRecords(text []byte, now time.Time) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(string(text)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidFormat)
	}

	var list []Record
	for _, row := range rows[1:] {
		field := func(i int) string {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		name := field(0)
		if name == "" {
			continue
		}
		category := field(1)
		if category == "" {
			category = "worldwide"
		}
		var tags []string
		if t := field(2); t != "" {
			tags = strings.Split(t, ";")
		}
		views, _ := strconv.Atoi(field(3))
		var gallery []string
		thumb := field(4)
		if thumb != "" {
			gallery = []string{thumb}
		}

		r := Record{
			Slug:      Slugify(name),
			Name:      name,
			Category:  category,
			Tags:      tags,
			Views:     views,
			Gallery:   gallery,
			Websites:  []Website{},
			Thumb:     thumb,
			CreatedAt: now,
		}
		normalizeRecord(&r)
		list = append(list, r)
	}
	return list, nil
}

// ExportJSONFilename returns the dated download name for a JSON export.
func ExportJSONFilename(now time.Time) string {
	return "actresses-backup-" + now.Format("2006-01-02") + ".json"
}

// ExportCSVFilename returns the dated download name for a CSV export.
func ExportCSVFilename(now time.Time) string {
	return "actresses-" + now.Format("2006-01-02") + ".csv"
}
