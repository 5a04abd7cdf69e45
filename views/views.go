// Package views provides the default templ components for the catalog.
// Everything here is a thin presentation adapter: all state arrives
// pre-filtered and pre-sorted from the handlers, and forms post back to
// the framework's routes.
package views

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	actresslib "github.com/ar-bappy-171/actresslib"
)

// Default returns a ViewFuncs wired to the built-in components.
func Default(cfg actresslib.SiteConfig) actresslib.ViewFuncs {
	return actresslib.ViewFuncs{
		Home:        func(g actresslib.GridState, siteURL string) templ.Component { return Home(cfg, g) },
		GridPartial: func(g actresslib.GridState) templ.Component { return Grid(g) },
		Profile: func(r actresslib.Record, related []actresslib.Record, siteURL string) templ.Component {
			return Profile(cfg, r, related)
		},
		StatsPartial: func(st actresslib.Stats) templ.Component { return StatsBar(st) },
		AdminLogin:   func(showError bool, csrf string) templ.Component { return AdminLogin(cfg, showError, csrf) },
		AdminDashboard: func(records []actresslib.Record, categories []string, editing *actresslib.Record, msg, csrf string) templ.Component {
			return AdminDashboard(cfg, records, categories, editing, msg, csrf)
		},
		AdminForm:   func(r actresslib.Record, csrf string) templ.Component { return adminForm(&r, csrf) },
		AdminImages: func(images []actresslib.Image, csrf string) templ.Component { return AdminImages(cfg, images, csrf) },
		NotFound:    func() templ.Component { return statusPage(cfg, "404", "Profile not found") },
		ServerError: func() templ.Component { return statusPage(cfg, "500", "Something went wrong") },
	}
}

// component adapts a write function into a templ.Component.
func component(f func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return f(w)
	})
}

func esc(s string) string { return templ.EscapeString(s) }

// layout writes the shared document shell around a body writer.
func layout(cfg actresslib.SiteConfig, meta actresslib.PageMeta, theme string, body func(w io.Writer) error) templ.Component {
	return component(func(w io.Writer) error {
		themeClass := ""
		if theme == actresslib.ThemeDark {
			themeClass = " class=\"dark\""
		}
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en"%s>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
`, themeClass, esc(meta.Title)); err != nil {
			return err
		}
		if meta.Description != "" {
			if _, err := fmt.Fprintf(w, "<meta name=\"description\" content=\"%s\">\n", esc(meta.Description)); err != nil {
				return err
			}
		}
		if meta.URL != "" {
			ogType := meta.OGType
			if ogType == "" {
				ogType = "website"
			}
			if _, err := fmt.Fprintf(w, `<meta property="og:title" content="%s">
<meta property="og:description" content="%s">
<meta property="og:url" content="%s">
<meta property="og:type" content="%s">
<link rel="canonical" href="%s">
`, esc(meta.Title), esc(meta.Description), esc(meta.URL), esc(ogType), esc(meta.URL)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<link rel="stylesheet" href="/public/style.css">
</head>
<body>
<header><a href="/">%s</a></header>
<main>
`, esc(cfg.Name)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// Home renders the full catalog page: filter bar, stats, and the grid.
func Home(cfg actresslib.SiteConfig, g actresslib.GridState) templ.Component {
	meta := actresslib.PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         cfg.URL,
		OGType:      "website",
	}
	return layout(cfg, meta, g.Theme, func(w io.Writer) error {
		if err := writeFilterBar(w, g); err != nil {
			return err
		}
		if err := writeStatsBar(w, g.Stats); err != nil {
			return err
		}
		return writeGrid(w, g)
	})
}

// Grid renders only the card grid, for HTMX partial swaps.
func Grid(g actresslib.GridState) templ.Component {
	return component(func(w io.Writer) error {
		return writeGrid(w, g)
	})
}

func writeFilterBar(w io.Writer, g actresslib.GridState) error {
	if _, err := fmt.Fprintf(w, `<form method="get" action="/" class="filter-bar">
<input type="search" name="q" value="%s" placeholder="Search by name, category or tag"
  hx-get="/?partial=grid" hx-trigger="input changed delay:%dms" hx-target="#grid" hx-include="closest form">
<select name="category">
<option value="all">All categories</option>
`, esc(g.Query), actresslib.SearchDebounceDelay.Milliseconds()); err != nil {
		return err
	}
	for _, cat := range g.Categories {
		selected := ""
		if cat == g.Category {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, "<option value=\"%s\"%s>%s</option>\n", esc(cat), selected, esc(cat)); err != nil {
			return err
		}
	}
	sortKeys := []struct{ key, label string }{
		{actresslib.SortName, "Name (A-Z)"},
		{actresslib.SortNameDesc, "Name (Z-A)"},
		{actresslib.SortRecent, "Recently added"},
		{actresslib.SortViews, "Most viewed"},
		{actresslib.SortPhotos, "Most photos"},
		{actresslib.SortLinks, "Most links"},
	}
	if _, err := io.WriteString(w, "</select>\n<select name=\"sort\">\n"); err != nil {
		return err
	}
	for _, s := range sortKeys {
		selected := ""
		if s.key == g.SortKey {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, "<option value=\"%s\"%s>%s</option>\n", s.key, selected, esc(s.label)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</select>\n<button type=\"submit\">Apply</button>\n</form>\n")
	return err
}

func writeStatsBar(w io.Writer, st actresslib.Stats) error {
	_, err := fmt.Fprintf(w, `<div class="stats-bar">
<span>%d profiles</span><span>%d photos</span><span>%d links</span><span>%d views</span>
</div>
`, st.Count, st.TotalPhotos, st.TotalLinks, st.TotalViews)
	return err
}

// StatsBar renders the aggregate counters on their own, for partial swaps.
func StatsBar(st actresslib.Stats) templ.Component {
	return component(func(w io.Writer) error {
		return writeStatsBar(w, st)
	})
}

func writeGrid(w io.Writer, g actresslib.GridState) error {
	countLine := fmt.Sprintf("Showing all %d profiles", g.Total)
	if len(g.Records) != g.Total {
		countLine = fmt.Sprintf("Showing %d of %d profiles", len(g.Records), g.Total)
	}
	size := g.CardSize
	if size == "" {
		size = "medium"
	}
	if _, err := fmt.Fprintf(w, "<p class=\"result-count\">%s</p>\n<div id=\"grid\" class=\"grid view-%s size-%s\">\n",
		esc(countLine), esc(g.ViewMode), esc(size)); err != nil {
		return err
	}
	for _, r := range g.Records {
		if _, err := fmt.Fprintf(w, `<a class="card" href="/profile/%s/">
<img src="%s" alt="%s" loading="lazy">
<h3>%s</h3>
<p class="meta">%s · %d photos · %d views</p>
</a>
`, esc(r.Slug), esc(r.Thumb), esc(r.Name), esc(r.Name), esc(r.Category), len(r.Gallery), r.Views); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</div>\n")
	return err
}

// Profile renders the detail page: gallery, tags, websites, related profiles.
func Profile(cfg actresslib.SiteConfig, r actresslib.Record, related []actresslib.Record) templ.Component {
	meta := actresslib.PageMeta{
		Title:       r.Name + " — " + cfg.Name,
		Description: r.Category + " — " + actresslib.JoinTags(r.Tags),
		URL:         actresslib.BuildURL(cfg.URL, "profile", r.Slug),
		OGType:      "profile",
	}
	return layout(cfg, meta, "", func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<article class=\"profile\">\n<h1>%s</h1>\n<p class=\"category\">%s</p>\n",
			esc(r.Name), esc(r.Category)); err != nil {
			return err
		}
		if len(r.Tags) > 0 {
			if _, err := io.WriteString(w, "<ul class=\"tags\">\n"); err != nil {
				return err
			}
			for _, tag := range r.Tags {
				if _, err := fmt.Fprintf(w, "<li><a href=\"/?q=%s\">%s</a></li>\n", url.QueryEscape(tag), esc(tag)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</ul>\n"); err != nil {
				return err
			}
		}
		if len(r.Websites) > 0 {
			if _, err := io.WriteString(w, "<ul class=\"websites\">\n"); err != nil {
				return err
			}
			for _, site := range r.Websites {
				if _, err := fmt.Fprintf(w, "<li class=\"site-%s\"><a href=\"%s\" rel=\"noopener\" target=\"_blank\">%s</a></li>\n",
					esc(site.Type), esc(site.URL), esc(site.Name)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</ul>\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "<div class=\"gallery\">\n"); err != nil {
			return err
		}
		for _, img := range r.Gallery {
			if _, err := fmt.Fprintf(w, "<img src=\"%s\" alt=\"%s\" loading=\"lazy\">\n", esc(img), esc(r.Name)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</div>\n</article>\n"); err != nil {
			return err
		}
		if len(related) > 0 {
			if _, err := io.WriteString(w, "<aside class=\"related\">\n<h2>Related</h2>\n<ul>\n"); err != nil {
				return err
			}
			for _, rel := range related {
				if _, err := fmt.Fprintf(w, "<li><a href=\"/profile/%s/\">%s</a></li>\n", esc(rel.Slug), esc(rel.Name)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</ul>\n</aside>\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

func statusPage(cfg actresslib.SiteConfig, code, message string) templ.Component {
	return layout(cfg, actresslib.PageMeta{Title: code + " — " + cfg.Name}, "", func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "<section class=\"status\">\n<h1>%s</h1>\n<p>%s</p>\n<a href=\"/\">Back to the catalog</a>\n</section>\n",
			esc(code), esc(message))
		return err
	})
}
