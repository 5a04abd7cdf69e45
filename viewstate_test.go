package actresslib

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ar-bappy-171/actresslib/kv"
)

func setupViewState(t *testing.T) (*ViewState, *kv.Store) {
	t.Helper()
	kvs, err := kv.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open kv store: %v", err)
	}
	t.Cleanup(func() { kvs.Close() })
	return NewViewState(kvs), kvs
}

func TestViewStateDefaults(t *testing.T) {
	v, _ := setupViewState(t)

	if v.Category() != "all" {
		t.Errorf("Category = %q, want all", v.Category())
	}
	if v.SortKey() != SortName {
		t.Errorf("SortKey = %q, want %q", v.SortKey(), SortName)
	}
	if v.ViewMode() != ViewGrid {
		t.Errorf("ViewMode = %q, want %q", v.ViewMode(), ViewGrid)
	}
	if v.Theme() != ThemeAuto {
		t.Errorf("Theme = %q, want %q", v.Theme(), ThemeAuto)
	}
	if !v.ToastsEnabled() {
		t.Error("toasts must default to enabled")
	}
}

func TestSetCategoryEmptyMeansAll(t *testing.T) {
	v, _ := setupViewState(t)
	v.SetCategory("japanese")
	if v.Category() != "japanese" {
		t.Errorf("Category = %q", v.Category())
	}
	v.SetCategory("")
	if v.Category() != "all" {
		t.Errorf("Category = %q, want all", v.Category())
	}
}

func TestPreferencesPersistAcrossSessions(t *testing.T) {
	v, kvs := setupViewState(t)

	if err := v.SetViewMode(ViewMasonry); err != nil {
		t.Fatalf("SetViewMode failed: %v", err)
	}
	if err := v.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if err := v.SetCardSize("large"); err != nil {
		t.Fatalf("SetCardSize failed: %v", err)
	}
	if err := v.SetToastsEnabled(false); err != nil {
		t.Fatalf("SetToastsEnabled failed: %v", err)
	}

	restored := NewViewState(kvs)
	if restored.ViewMode() != ViewMasonry {
		t.Errorf("ViewMode = %q, want masonry", restored.ViewMode())
	}
	if restored.Theme() != ThemeDark {
		t.Errorf("Theme = %q, want dark", restored.Theme())
	}
	if restored.CardSize() != "large" {
		t.Errorf("CardSize = %q, want large", restored.CardSize())
	}
	if restored.ToastsEnabled() {
		t.Error("toasts must restore as disabled")
	}
}

func TestSetThemeAutoRemovesStoredKey(t *testing.T) {
	v, kvs := setupViewState(t)

	if err := v.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if err := v.SetTheme(ThemeAuto); err != nil {
		t.Fatalf("SetTheme auto failed: %v", err)
	}

	if _, ok, _ := kvs.Get(ThemeKey); ok {
		t.Error("theme key must be removed when switching to auto")
	}
	restored := NewViewState(kvs)
	if restored.Theme() != ThemeAuto {
		t.Errorf("Theme = %q, want auto", restored.Theme())
	}
}

func TestSetViewModeIgnoresUnknown(t *testing.T) {
	v, _ := setupViewState(t)
	if err := v.SetViewMode("cinema"); err != nil {
		t.Fatalf("SetViewMode failed: %v", err)
	}
	if v.ViewMode() != ViewGrid {
		t.Errorf("ViewMode = %q, unknown mode must be ignored", v.ViewMode())
	}
}

func TestSelectionToggle(t *testing.T) {
	v, _ := setupViewState(t)

	if !v.ToggleSelect("emma") {
		t.Error("first toggle must select")
	}
	if v.ToggleSelect("emma") {
		t.Error("second toggle must deselect")
	}
	v.ToggleSelect("emma")
	v.ToggleSelect("lisa")
	if v.SelectionSize() != 2 {
		t.Errorf("SelectionSize = %d, want 2", v.SelectionSize())
	}

	sel := v.Selection()
	delete(sel, "emma")
	if v.SelectionSize() != 2 {
		t.Error("Selection must return a copy")
	}

	v.ClearSelection()
	if v.SelectionSize() != 0 {
		t.Errorf("SelectionSize = %d, want 0 after clear", v.SelectionSize())
	}
}

func TestEditStateMachine(t *testing.T) {
	v, _ := setupViewState(t)

	if _, editing := v.EditingSlug(); editing {
		t.Error("no edit should be in progress initially")
	}

	v.BeginEdit("emma")
	slug, editing := v.EditingSlug()
	if !editing || slug != "emma" {
		t.Errorf("EditingSlug = %q, %v, want emma, true", slug, editing)
	}

	v.FinishEdit()
	if _, editing := v.EditingSlug(); editing {
		t.Error("FinishEdit must return to add mode")
	}
}

func TestCancelEditNotifies(t *testing.T) {
	v, _ := setupViewState(t)

	var cancelled []string
	v.OnCancelEdit(func(slug string) { cancelled = append(cancelled, slug) })

	// Cancel with no edit in progress never fires.
	v.CancelEdit()
	if len(cancelled) != 0 {
		t.Fatal("cancel without an edit must not notify")
	}

	v.BeginEdit("emma")
	v.CancelEdit()
	if len(cancelled) != 1 || cancelled[0] != "emma" {
		t.Errorf("cancelled = %v, want [emma]", cancelled)
	}
	if _, editing := v.EditingSlug(); editing {
		t.Error("CancelEdit must return to add mode")
	}

	// FinishEdit is the success path and never notifies.
	v.BeginEdit("lisa")
	v.FinishEdit()
	if len(cancelled) != 1 {
		t.Errorf("cancelled = %v, FinishEdit must not notify", cancelled)
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want exactly 1 after rapid triggers", got)
	}
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 after Stop", got)
	}
}
