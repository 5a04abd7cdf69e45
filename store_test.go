package actresslib

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ar-bappy-171/actresslib/kv"
)

func setupRecordStore(t *testing.T) *RecordStore {
	t.Helper()
	kvs, err := kv.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open kv store: %v", err)
	}
	t.Cleanup(func() { kvs.Close() })

	s := NewRecordStore(kvs)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestLoadSeedsSamples(t *testing.T) {
	s := setupRecordStore(t)

	list, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3 sample records", len(list))
	}

	// The seed must be persisted, not just held in memory.
	s2 := NewRecordStore(s.kv)
	list2, err := s2.Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if len(list2) != 3 {
		t.Errorf("reloaded len = %d, want 3", len(list2))
	}
	if list2[0].Slug != list[0].Slug {
		t.Errorf("reloaded slug = %q, want %q", list2[0].Slug, list[0].Slug)
	}
}

func TestLoadResetsOnCorruptPayload(t *testing.T) {
	s := setupRecordStore(t)
	if err := s.kv.Set(RecordsKey, "not valid json{"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	list, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("len = %d, want sample set after corrupt payload", len(list))
	}
}

func TestLoadDropsSluglessEntries(t *testing.T) {
	s := setupRecordStore(t)
	payload := `[{"slug":"keep","name":"Keep","category":"worldwide"},{"name":"No Slug","category":"worldwide"}]`
	if err := s.kv.Set(RecordsKey, payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	list, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if list[0].Slug != "keep" {
		t.Errorf("slug = %q, want %q", list[0].Slug, "keep")
	}
}

func TestCreateDerivesSlug(t *testing.T) {
	s := setupRecordStore(t)

	got, err := s.Create(Record{Name: "A/B", Category: "worldwide"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got.Slug != "a-b" {
		t.Errorf("Slug = %q, want %q", got.Slug, "a-b")
	}
}

func TestCreateResetsCounters(t *testing.T) {
	s := setupRecordStore(t)

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := s.Create(Record{
		Name:       "Emma",
		Category:   "worldwide",
		Views:      99,
		CreatedAt:  stale,
		LastViewed: &stale,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got.Views != 0 {
		t.Errorf("Views = %d, want 0", got.Views)
	}
	if got.LastViewed != nil {
		t.Errorf("LastViewed = %v, want nil", got.LastViewed)
	}
	if !got.CreatedAt.Equal(s.now()) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, s.now())
	}
}

func TestCreateNormalizesRecord(t *testing.T) {
	s := setupRecordStore(t)

	got, err := s.Create(Record{Name: "Emma", Category: "worldwide"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got.Tags == nil || got.Websites == nil || got.Gallery == nil {
		t.Error("tags, websites and gallery must be non-nil after Create")
	}
	if got.Thumb != PlaceholderThumb {
		t.Errorf("Thumb = %q, want placeholder", got.Thumb)
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	s := setupRecordStore(t)

	first, err := s.Create(Record{Name: "Emma", Category: "worldwide", Tags: []string{"original"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = s.Create(Record{Name: "Emma", Category: "other"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}

	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1 after rejected duplicate", s.Len())
	}
	got, err := s.Get(first.Slug)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Category != "worldwide" || len(got.Tags) != 1 {
		t.Error("existing record must be unchanged after rejected duplicate")
	}
}

func TestCreateRequiresName(t *testing.T) {
	s := setupRecordStore(t)
	if _, err := s.Create(Record{Name: "   "}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestUpdatePreservesImmutableFields(t *testing.T) {
	s := setupRecordStore(t)

	created, err := s.Create(Record{Name: "Emma", Category: "worldwide"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.TrackView(created.Slug); err != nil {
		t.Fatalf("TrackView failed: %v", err)
	}

	s.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	updated, err := s.Update(created.Slug, Record{
		Name:      "Emma Stone",
		Category:  "hollywood",
		CreatedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		Views:     1000,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "Emma Stone" || updated.Category != "hollywood" {
		t.Error("editable fields must take the patch values")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want original %v", updated.CreatedAt, created.CreatedAt)
	}
	if updated.Views != 1 {
		t.Errorf("Views = %d, want 1 (carried over)", updated.Views)
	}
	if updated.LastViewed == nil {
		t.Error("LastViewed must be carried over")
	}
	if updated.Slug != created.Slug {
		t.Errorf("Slug = %q, want %q", updated.Slug, created.Slug)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := setupRecordStore(t)
	if _, err := s.Update("ghost", Record{Name: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	s := setupRecordStore(t)
	if err := s.Delete("ghost"); err != nil {
		t.Errorf("Delete of absent slug = %v, want nil", err)
	}
}

func TestDeleteManySingleNotification(t *testing.T) {
	s := setupRecordStore(t)
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		if _, err := s.Create(Record{Name: name, Category: "worldwide"}); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}

	notifications := 0
	s.OnChange(func([]Record) { notifications++ })

	removed, err := s.DeleteMany(map[string]struct{}{"alpha": {}, "gamma": {}, "ghost": {}})
	if err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if notifications != 1 {
		t.Errorf("notifications = %d, want exactly 1 for the batch", notifications)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, err := s.Get("beta"); err != nil {
		t.Errorf("surviving record missing: %v", err)
	}
}

func TestDeleteManyNoMatches(t *testing.T) {
	s := setupRecordStore(t)
	if _, err := s.Create(Record{Name: "Alpha", Category: "worldwide"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	notifications := 0
	s.OnChange(func([]Record) { notifications++ })

	removed, err := s.DeleteMany(map[string]struct{}{"ghost": {}})
	if err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}
	if removed != 0 || notifications != 0 {
		t.Errorf("removed = %d notifications = %d, want 0 and 0", removed, notifications)
	}
}

func TestRecategorize(t *testing.T) {
	s := setupRecordStore(t)
	for _, name := range []string{"Alpha", "Beta"} {
		if _, err := s.Create(Record{Name: name, Category: "worldwide"}); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}

	notifications := 0
	s.OnChange(func([]Record) { notifications++ })

	updated, err := s.Recategorize(map[string]struct{}{"alpha": {}, "beta": {}}, "japanese")
	if err != nil {
		t.Fatalf("Recategorize failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	if notifications != 1 {
		t.Errorf("notifications = %d, want 1", notifications)
	}
	got, _ := s.Get("alpha")
	if got.Category != "japanese" {
		t.Errorf("Category = %q, want %q", got.Category, "japanese")
	}
}

func TestTrackView(t *testing.T) {
	s := setupRecordStore(t)
	created, err := s.Create(Record{Name: "Emma", Category: "worldwide"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := s.TrackView(created.Slug); err != nil {
			t.Fatalf("TrackView failed: %v", err)
		}
	}

	got, _ := s.Get(created.Slug)
	if got.Views != 5 {
		t.Errorf("Views = %d, want 5", got.Views)
	}
	if got.LastViewed == nil || !got.LastViewed.Equal(s.now()) {
		t.Errorf("LastViewed = %v, want %v", got.LastViewed, s.now())
	}
}

func TestTrackViewAbsentSlug(t *testing.T) {
	s := setupRecordStore(t)
	if err := s.TrackView("ghost"); err != nil {
		t.Errorf("TrackView of absent slug = %v, want nil", err)
	}
}

func TestQueryFilters(t *testing.T) {
	s := setupRecordStore(t)
	seed := []Record{
		{Name: "Emma Stone", Category: "hollywood", Tags: []string{"oscar", "comedy"}},
		{Name: "Lisa", Category: "japanese", Tags: []string{"model"}},
		{Name: "Megan Fox", Category: "hollywood", Tags: []string{"action"}},
	}
	for _, r := range seed {
		if _, err := s.Create(r); err != nil {
			t.Fatalf("Create %s failed: %v", r.Name, err)
		}
	}

	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{"all", "", "all", []string{"emma-stone", "lisa", "megan-fox"}},
		{"empty category matches all", "", "", []string{"emma-stone", "lisa", "megan-fox"}},
		{"by category", "", "hollywood", []string{"emma-stone", "megan-fox"}},
		{"by name substring", "emm", "all", []string{"emma-stone"}},
		{"case insensitive", "EMMA", "all", []string{"emma-stone"}},
		{"by tag", "oscar", "all", []string{"emma-stone"}},
		{"by category text", "japan", "all", []string{"lisa"}},
		{"query and category", "fox", "hollywood", []string{"megan-fox"}},
		{"no match", "zzz", "all", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Query(tt.query, tt.category)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, slug := range tt.want {
				if got[i].Slug != slug {
					t.Errorf("result[%d] = %q, want %q", i, got[i].Slug, slug)
				}
			}
		})
	}
}

func TestQueryIsIdempotent(t *testing.T) {
	s := setupRecordStore(t)
	if _, err := s.Create(Record{Name: "Emma", Category: "worldwide"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := s.Query("emma", "all")
	second := s.Query("emma", "all")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("lens = %d, %d, want 1 and 1", len(first), len(second))
	}
	if first[0].Views != second[0].Views {
		t.Error("repeated queries must not mutate records")
	}
}

func TestCategories(t *testing.T) {
	s := setupRecordStore(t)
	for _, r := range []Record{
		{Name: "A", Category: "worldwide"},
		{Name: "B", Category: "japanese"},
		{Name: "C", Category: "worldwide"},
	} {
		if _, err := s.Create(r); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got := s.Categories()
	want := []string{"japanese", "worldwide"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStats(t *testing.T) {
	s := setupRecordStore(t)
	if _, err := s.Create(Record{
		Name: "Emma", Category: "worldwide",
		Gallery:  []string{"a.jpg", "b.jpg"},
		Websites: []Website{{Name: "Official", URL: "https://e.example", Type: TypeOfficial}},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Create(Record{Name: "Lisa", Category: "japanese", Gallery: []string{"c.jpg"}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.TrackView("emma"); err != nil {
		t.Fatalf("TrackView failed: %v", err)
	}

	st := s.Stats()
	if st.Count != 2 {
		t.Errorf("Count = %d, want 2", st.Count)
	}
	if st.TotalPhotos != 3 {
		t.Errorf("TotalPhotos = %d, want 3", st.TotalPhotos)
	}
	if st.TotalLinks != 1 {
		t.Errorf("TotalLinks = %d, want 1", st.TotalLinks)
	}
	if st.TotalViews != 1 {
		t.Errorf("TotalViews = %d, want 1", st.TotalViews)
	}
}

func TestReplaceAllAndClear(t *testing.T) {
	s := setupRecordStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := s.ReplaceAll([]Record{{Slug: "solo", Name: "Solo", Category: "worldwide"}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	got, _ := s.Get("solo")
	if got.Thumb != PlaceholderThumb {
		t.Error("ReplaceAll must normalize records")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 after Clear", s.Len())
	}
}

func TestSortRecordsByViews(t *testing.T) {
	a := Record{Slug: "a", Name: "a", Views: 2}
	b := Record{Slug: "b", Name: "b", Views: 5}

	got := SortRecords([]Record{a, b}, SortViews)
	if got[0].Slug != "b" || got[1].Slug != "a" {
		t.Errorf("order = [%s, %s], want [b, a]", got[0].Slug, got[1].Slug)
	}
}

func TestSortRecordsStableTies(t *testing.T) {
	list := []Record{
		{Slug: "first", Name: "first", Views: 3},
		{Slug: "second", Name: "second", Views: 3},
	}
	got := SortRecords(list, SortViews)
	if got[0].Slug != "first" || got[1].Slug != "second" {
		t.Error("equal views must keep their input order")
	}
}

func TestSortRecordsByName(t *testing.T) {
	list := []Record{
		{Slug: "b", Name: "banana"},
		{Slug: "a", Name: "Apple"},
		{Slug: "c", Name: "cherry"},
	}

	asc := SortRecords(list, SortName)
	if asc[0].Slug != "a" || asc[1].Slug != "b" || asc[2].Slug != "c" {
		t.Errorf("ascending order = [%s, %s, %s]", asc[0].Slug, asc[1].Slug, asc[2].Slug)
	}

	desc := SortRecords(list, SortNameDesc)
	if desc[0].Slug != "c" || desc[2].Slug != "a" {
		t.Errorf("descending order = [%s, %s, %s]", desc[0].Slug, desc[1].Slug, desc[2].Slug)
	}

	// Unknown keys fall back to name ascending.
	def := SortRecords(list, "bogus")
	if def[0].Slug != "a" {
		t.Errorf("fallback order starts with %s, want a", def[0].Slug)
	}
}

func TestSortRecordsDoesNotMutateInput(t *testing.T) {
	list := []Record{{Slug: "b", Name: "b"}, {Slug: "a", Name: "a"}}
	_ = SortRecords(list, SortName)
	if list[0].Slug != "b" {
		t.Error("SortRecords must not reorder its input")
	}
}

func TestSortRecordsByRecentPhotosLinks(t *testing.T) {
	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []Record{
		{Slug: "old", Name: "old", CreatedAt: older, Gallery: []string{"1"}, Websites: []Website{{}, {}}},
		{Slug: "new", Name: "new", CreatedAt: newer, Gallery: []string{"1", "2"}, Websites: []Website{{}}},
	}

	if got := SortRecords(list, SortRecent); got[0].Slug != "new" {
		t.Errorf("recent first = %s, want new", got[0].Slug)
	}
	if got := SortRecords(list, SortPhotos); got[0].Slug != "new" {
		t.Errorf("photos first = %s, want new", got[0].Slug)
	}
	if got := SortRecords(list, SortLinks); got[0].Slug != "old" {
		t.Errorf("links first = %s, want old", got[0].Slug)
	}
}
