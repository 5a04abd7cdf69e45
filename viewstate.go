package actresslib

import (
	"sync"
	"time"

	"github.com/ar-bappy-171/actresslib/kv"
)

// ViewState tracks the transient query and selection state that drives
// reads against the RecordStore. It is not authoritative: everything
// here can be re-derived except viewMode, theme and cardSize, which
// survive across sessions in the key-value store.
type ViewState struct {
	mu sync.Mutex
	kv *kv.Store

	category   string
	searchText string
	sortKey    string
	viewMode   string
	theme      string
	cardSize   string
	toasts     bool
	selection  map[string]struct{}

	// editingSlug non-empty means the add form is bound to an existing
	// record: submitting updates instead of creating.
	editingSlug string
	onCancel    func(slug string)
}

// NewViewState creates a ViewState, restoring persisted preferences.
func NewViewState(kvs *kv.Store) *ViewState {
	v := &ViewState{
		kv:        kvs,
		category:  "all",
		sortKey:   SortName,
		viewMode:  ViewGrid,
		theme:     ThemeAuto,
		toasts:    true,
		selection: make(map[string]struct{}),
	}
	if kvs != nil {
		if mode, ok, _ := kvs.Get(ViewModeKey); ok && validViewMode(mode) {
			v.viewMode = mode
		}
		if theme, ok, _ := kvs.Get(ThemeKey); ok && (theme == ThemeDark || theme == ThemeLight) {
			v.theme = theme
		}
		if size, ok, _ := kvs.Get(CardSizeKey); ok {
			v.cardSize = size
		}
		if val, ok, _ := kvs.Get(ToastsKey); ok && val == "false" {
			v.toasts = false
		}
	}
	return v
}

func validViewMode(mode string) bool {
	switch mode {
	case ViewGrid, ViewMasonry, ViewList, ViewSlideshow:
		return true
	}
	return false
}

// OnCancelEdit registers a callback invoked with the abandoned slug
// whenever an in-progress edit is cancelled.
func (v *ViewState) OnCancelEdit(fn func(slug string)) {
	v.mu.Lock()
	v.onCancel = fn
	v.mu.Unlock()
}

// Category returns the active category filter ("all" when unfiltered).
func (v *ViewState) Category() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.category
}

// SetCategory changes the active category filter.
func (v *ViewState) SetCategory(category string) {
	v.mu.Lock()
	if category == "" {
		category = "all"
	}
	v.category = category
	v.mu.Unlock()
}

// SearchText returns the current search text.
func (v *ViewState) SearchText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchText
}

// SetSearchText updates the search text.
func (v *ViewState) SetSearchText(text string) {
	v.mu.Lock()
	v.searchText = text
	v.mu.Unlock()
}

// SortKey returns the active sort key.
func (v *ViewState) SortKey() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortKey
}

// SetSortKey changes the active sort key.
func (v *ViewState) SetSortKey(key string) {
	v.mu.Lock()
	v.sortKey = key
	v.mu.Unlock()
}

// ViewMode returns the persisted card layout mode.
func (v *ViewState) ViewMode() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewMode
}

// SetViewMode changes and persists the card layout mode. Unknown modes
// are ignored.
func (v *ViewState) SetViewMode(mode string) error {
	if !validViewMode(mode) {
		return nil
	}
	v.mu.Lock()
	v.viewMode = mode
	v.mu.Unlock()
	if v.kv != nil {
		return v.kv.Set(ViewModeKey, mode)
	}
	return nil
}

// Theme returns the persisted theme, or ThemeAuto when none is stored.
func (v *ViewState) Theme() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.theme
}

// SetTheme changes and persists the theme. ThemeAuto removes the stored
// key so the presentation layer follows the system preference.
func (v *ViewState) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight && theme != ThemeAuto {
		return nil
	}
	v.mu.Lock()
	v.theme = theme
	v.mu.Unlock()
	if v.kv == nil {
		return nil
	}
	if theme == ThemeAuto {
		return v.kv.Delete(ThemeKey)
	}
	return v.kv.Set(ThemeKey, theme)
}

// CardSize returns the persisted card size token.
func (v *ViewState) CardSize() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cardSize
}

// SetCardSize changes and persists the card size token, which is echoed
// to the presentation layer without interpretation.
func (v *ViewState) SetCardSize(size string) error {
	v.mu.Lock()
	v.cardSize = size
	v.mu.Unlock()
	if v.kv != nil {
		return v.kv.Set(CardSizeKey, size)
	}
	return nil
}

// ToastsEnabled reports whether the notification surface is enabled.
// Only a stored "false" disables it.
func (v *ViewState) ToastsEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toasts
}

// SetToastsEnabled changes and persists the notification toggle.
func (v *ViewState) SetToastsEnabled(enabled bool) error {
	v.mu.Lock()
	v.toasts = enabled
	v.mu.Unlock()
	if v.kv == nil {
		return nil
	}
	if enabled {
		return v.kv.Set(ToastsKey, "true")
	}
	return v.kv.Set(ToastsKey, "false")
}

// ToggleSelect adds the slug to the batch selection, or removes it when
// already selected. Returns true when the slug ends up selected.
func (v *ViewState) ToggleSelect(slug string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.selection[slug]; ok {
		delete(v.selection, slug)
		return false
	}
	v.selection[slug] = struct{}{}
	return true
}

// Selection returns a copy of the selected slug set.
func (v *ViewState) Selection() map[string]struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]struct{}, len(v.selection))
	for s := range v.selection {
		out[s] = struct{}{}
	}
	return out
}

// SelectionSize returns the number of selected slugs.
func (v *ViewState) SelectionSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.selection)
}

// ClearSelection empties the batch selection.
func (v *ViewState) ClearSelection() {
	v.mu.Lock()
	v.selection = make(map[string]struct{})
	v.mu.Unlock()
}

// BeginEdit binds the add form to an existing record. The form is
// populated from the record snapshot by the presentation layer.
func (v *ViewState) BeginEdit(slug string) {
	v.mu.Lock()
	v.editingSlug = slug
	v.mu.Unlock()
}

// EditingSlug returns the slug being edited and whether an edit is in
// progress.
func (v *ViewState) EditingSlug() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editingSlug, v.editingSlug != ""
}

// FinishEdit returns the form to add mode after a successful submit.
func (v *ViewState) FinishEdit() {
	v.mu.Lock()
	v.editingSlug = ""
	v.mu.Unlock()
}

// CancelEdit abandons an in-progress edit, discarding field edits, and
// emits the cancelled notification. It never fires implicitly: only an
// explicit cancel (closing the panel, switching tabs, Escape) calls it.
func (v *ViewState) CancelEdit() {
	v.mu.Lock()
	slug := v.editingSlug
	v.editingSlug = ""
	fn := v.onCancel
	v.mu.Unlock()
	if slug != "" && fn != nil {
		fn(slug)
	}
}

// SearchDebounceDelay is how long the search input stays quiet before
// the query runs.
const SearchDebounceDelay = 300 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback after a
// quiet period. There is at most one outstanding timer: a new trigger
// cancels and restarts it, so only the final call after a pause runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, cancelling any
// previously scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any scheduled call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
