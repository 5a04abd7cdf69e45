package actresslib

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ar-bappy-171/actresslib/kv"
)

// Storage keys used in the key-value store.
const (
	RecordsKey   = "actresses.json"
	ViewModeKey  = "viewMode"
	ThemeKey     = "theme"
	CardSizeKey  = "cardSize"
	TemplatesKey = "actressTemplates"
	ToastsKey    = "toastNotifications"
	UploadsKey   = "uploads.json"
)

var (
	// ErrDuplicateKey is returned by Create when the slug already exists.
	ErrDuplicateKey = errors.New("record with this slug already exists")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidFormat is returned by the import codec for malformed payloads.
	ErrInvalidFormat = errors.New("invalid import payload")
)

// RecordStore is the single source of truth for the record list. It
// holds the list in memory and persists the whole list as one JSON
// array under the actresses.json key on every mutation.
//
// Every mutator performs exactly one persisted write and one change
// notification, so batch operations never expose intermediate states.
// A failed write is surfaced to the caller and is not retried; the
// in-memory effect is not rolled back.
type RecordStore struct {
	mu       sync.RWMutex
	records  []Record
	kv       *kv.Store
	onChange []func([]Record)

	now func() time.Time
}

// NewRecordStore creates a RecordStore backed by the given key-value store.
// Call Load before serving queries.
func NewRecordStore(kvs *kv.Store) *RecordStore {
	return &RecordStore{kv: kvs, now: time.Now}
}

// OnChange registers a callback invoked with a snapshot of the full
// record list after every successfully persisted mutation. Presentation
// layers subscribe here instead of re-deriving state at each call site.
func (s *RecordStore) OnChange(fn func([]Record)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Load reads the persisted record list. A missing or unparsable payload
// is replaced by the bootstrap sample set, which is persisted
// immediately. Elements without a slug are silently dropped — losing the
// whole catalog over a few unreadable entries would be worse.
func (s *RecordStore) Load() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(RecordsKey)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if !ok {
		return s.resetToSamples()
	}

	var list []Record
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return s.resetToSamples()
	}

	kept := list[:0]
	for _, r := range list {
		if r.Slug == "" {
			continue
		}
		normalizeRecord(&r)
		kept = append(kept, r)
	}
	s.records = kept
	return s.snapshot(), nil
}

// resetToSamples installs the bootstrap sample set. Caller holds the lock.
func (s *RecordStore) resetToSamples() ([]Record, error) {
	s.records = sampleRecords(s.now())
	if err := s.save(); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// save persists the current list. Caller holds the lock.
func (s *RecordStore) save() error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Set(RecordsKey, string(data)); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

// commit persists and notifies subscribers. Caller holds the lock.
func (s *RecordStore) commit() error {
	if err := s.save(); err != nil {
		return err
	}
	snap := s.snapshot()
	for _, fn := range s.onChange {
		fn(snap)
	}
	return nil
}

// snapshot returns a copy of the record list. Caller holds the lock.
func (s *RecordStore) snapshot() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// normalizeRecord enforces the structural invariants every record must
// hold: websites and gallery are always arrays, thumb is never empty.
func normalizeRecord(r *Record) {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Websites == nil {
		r.Websites = []Website{}
	}
	if r.Gallery == nil {
		r.Gallery = []string{}
	}
	if r.Thumb == "" {
		r.Thumb = PlaceholderThumb
	}
}

// Records returns a snapshot of the full list in insertion order.
func (s *RecordStore) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Len returns the number of records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given slug.
func (s *RecordStore) Get(slug string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.Slug == slug {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Create appends a new record. The slug is derived from the name when
// not supplied; an exact-slug collision fails with ErrDuplicateKey and
// leaves the store unchanged. Views, CreatedAt and LastViewed are always
// set here, never taken from the input.
func (s *RecordStore) Create(r Record) (Record, error) {
	if strings.TrimSpace(r.Name) == "" {
		return Record{}, fmt.Errorf("%w: name is required", ErrInvalidFormat)
	}
	if r.Slug == "" {
		r.Slug = Slugify(r.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.Slug == r.Slug {
			return Record{}, ErrDuplicateKey
		}
	}

	r.Views = 0
	r.CreatedAt = s.now()
	r.LastViewed = nil
	normalizeRecord(&r)

	s.records = append(s.records, r)
	if err := s.commit(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Update replaces every field of the record except Slug, CreatedAt,
// Views and LastViewed, which are carried over from the existing record
// verbatim. Fails with ErrNotFound when the slug is absent.
func (s *RecordStore) Update(slug string, patch Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.records {
		if existing.Slug != slug {
			continue
		}
		patch.Slug = existing.Slug
		patch.CreatedAt = existing.CreatedAt
		patch.Views = existing.Views
		patch.LastViewed = existing.LastViewed
		normalizeRecord(&patch)

		s.records[i] = patch
		if err := s.commit(); err != nil {
			return Record{}, err
		}
		return patch, nil
	}
	return Record{}, ErrNotFound
}

// Delete removes the record with the given slug. Deleting an absent
// slug is a benign no-op, not an error.
func (s *RecordStore) Delete(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.Slug == slug {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.commit()
		}
	}
	return nil
}

// DeleteMany removes every record whose slug is in slugs with a single
// persisted write. Returns the number of records removed.
func (s *RecordStore) DeleteMany(slugs map[string]struct{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	removed := 0
	for _, r := range s.records {
		if _, ok := slugs[r.Slug]; ok {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0, nil
	}
	s.records = kept
	if err := s.commit(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Recategorize assigns newCategory to every record whose slug is in
// slugs, as a single persisted write. Returns the number updated.
func (s *RecordStore) Recategorize(slugs map[string]struct{}, newCategory string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.records {
		if _, ok := slugs[s.records[i].Slug]; ok {
			s.records[i].Category = newCategory
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if err := s.commit(); err != nil {
		return updated, err
	}
	return updated, nil
}

// TrackView increments the view counter and moves LastViewed forward.
// These two fields are mutated here and nowhere else. Absent slugs are
// a no-op.
func (s *RecordStore) TrackView(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Slug == slug {
			s.records[i].Views++
			now := s.now()
			s.records[i].LastViewed = &now
			return s.commit()
		}
	}
	return nil
}

// ReplaceAll swaps the entire record list in one persisted write. Used
// by the import codec only; callers must confirm before invoking.
func (s *RecordStore) ReplaceAll(list []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replacement := make([]Record, len(list))
	copy(replacement, list)
	for i := range replacement {
		normalizeRecord(&replacement[i])
	}
	s.records = replacement
	return s.commit()
}

// Clear removes every record.
func (s *RecordStore) Clear() error {
	return s.ReplaceAll(nil)
}

// Query returns the subset matching the category filter and the
// case-insensitive search text. Category "all" (or empty) matches
// everything; the search text matches as a substring of the name, the
// category, or any tag. Results keep insertion order; an empty result
// is not an error.
func (s *RecordStore) Query(searchText, category string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(searchText))
	var out []Record
	for _, r := range s.records {
		if category != "" && category != "all" && r.Category != category {
			continue
		}
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r Record, q string) bool {
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Category), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Categories returns the sorted distinct category set across all records.
func (s *RecordStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, r := range s.records {
		if r.Category != "" {
			set[r.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Stats returns aggregate counters over the whole list.
func (s *RecordStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Count: len(s.records)}
	for _, r := range s.records {
		st.TotalPhotos += len(r.Gallery)
		st.TotalLinks += len(r.Websites)
		st.TotalViews += r.Views
	}
	return st
}

// SortRecords returns a new slice ordered by the given key. Sorting is
// stable: ties keep their relative order from the input. Name ordering
// is case-insensitive; an unrecognized key sorts by name ascending.
func SortRecords(list []Record, key string) []Record {
	out := make([]Record, len(list))
	copy(out, list)

	var less func(a, b Record) bool
	switch key {
	case SortNameDesc:
		less = func(a, b Record) bool {
			return strings.ToLower(b.Name) < strings.ToLower(a.Name)
		}
	case SortRecent:
		less = func(a, b Record) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortViews:
		less = func(a, b Record) bool { return a.Views > b.Views }
	case SortPhotos:
		less = func(a, b Record) bool { return len(a.Gallery) > len(b.Gallery) }
	case SortLinks:
		less = func(a, b Record) bool { return len(a.Websites) > len(b.Websites) }
	default:
		less = func(a, b Record) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
