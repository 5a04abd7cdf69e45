package actresslib

import "time"

// PlaceholderThumb is used whenever a record has no thumbnail of its own.
const PlaceholderThumb = "https://via.placeholder.com/300x240/374151/9ca3af?text=No+Image"

// Website type values recognized by the presentation layer. Anything
// else falls back to TypeDefault.
const (
	TypeOfficial  = "official"
	TypeInstagram = "instagram"
	TypeTwitter   = "twitter"
	TypeWikipedia = "wikipedia"
	TypeFacebook  = "facebook"
	TypeYouTube   = "youtube"
	TypeMega      = "mega"
	TypeReddit    = "reddit"
	TypeDefault   = "default"
)

// Website is a single social or official link attached to a record.
type Website struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Picture string `json:"picture,omitempty"`
	Type    string `json:"type"`
}

// Record is the core profile entity stored under the actresses.json key.
// Slug is the primary key for all lookups and is derived from Name at
// creation time; it never changes afterwards.
type Record struct {
	Slug       string     `json:"slug"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Tags       []string   `json:"tags"`
	Websites   []Website  `json:"websites"`
	Gallery    []string   `json:"gallery"`
	Thumb      string     `json:"thumb"`
	Views      int        `json:"views"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastViewed *time.Time `json:"lastViewed"`
	Favorite   bool       `json:"favorite,omitempty"`
}

// Stats aggregates counters across the whole record list.
type Stats struct {
	Count       int `json:"count"`
	TotalPhotos int `json:"totalPhotos"`
	TotalLinks  int `json:"totalLinks"`
	TotalViews  int `json:"totalViews"`
}

// Sort keys accepted by SortRecords. An unrecognized key behaves as SortName.
const (
	SortName     = "name"
	SortNameDesc = "name-desc"
	SortRecent   = "recent"
	SortViews    = "views"
	SortPhotos   = "photos"
	SortLinks    = "links"
)

// View modes for the card grid. Only these four values are persisted.
const (
	ViewGrid      = "grid"
	ViewMasonry   = "masonry"
	ViewList      = "list"
	ViewSlideshow = "slideshow"
)

// Themes. ThemeAuto is represented by the absence of a stored theme key.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Template is a saved add-form preset (name, category, tags, websites).
// Templates are a write-only convenience: they are appended to the
// actressTemplates key and never read back into the store itself.
type Template struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Tags     []string  `json:"tags"`
	Websites []Website `json:"websites"`
}

// Image is metadata for a processed thumbnail upload.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploaded_at"`
}

// PageMeta carries per-page OpenGraph metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string
	OGType      string
}
