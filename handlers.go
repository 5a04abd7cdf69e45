package actresslib

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// gridState runs the filter/sort pipeline for the current request and
// packages the result for the grid templates. Query params override the
// stored view state so links are shareable.
func (a *App) gridState(c echo.Context) GridState {
	query := c.QueryParam("q")
	category := c.QueryParam("category")
	if category == "" {
		category = a.State.Category()
	}
	sortKey := c.QueryParam("sort")
	if sortKey == "" {
		sortKey = a.State.SortKey()
	}

	a.State.SetCategory(category)
	a.State.SetSearchText(query)
	a.State.SetSortKey(sortKey)

	records := SortRecords(a.Store.Query(query, category), sortKey)

	return GridState{
		Records:    records,
		Categories: a.Store.Categories(),
		Category:   category,
		Query:      query,
		SortKey:    sortKey,
		ViewMode:   a.State.ViewMode(),
		CardSize:   a.State.CardSize(),
		Theme:      a.State.Theme(),
		Stats:      a.Store.Stats(),
		Total:      a.Store.Len(),
	}
}

// handleHome serves the card grid, with HTMX partial support.
func (a *App) handleHome(c echo.Context) error {
	g := a.gridState(c)
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "grid" {
		return Render(c, a.Views.GridPartial(g))
	}
	return Render(c, a.Views.Home(g, a.Config.URL))
}

// handleProfile serves a single profile page and tracks the view.
func (a *App) handleProfile(c echo.Context) error {
	slug := c.Param("slug")
	record, err := a.Store.Get(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	if err := a.Store.TrackView(slug); err != nil {
		// A failed counter write should not take down the page.
		c.Logger().Errorf("track view %s: %v", slug, err)
	}
	related := RelatedRecords(record, a.Store.Records())
	return Render(c, a.Views.Profile(record, related, a.Config.URL))
}

// handleStats serves the aggregate counters partial.
func (a *App) handleStats(c echo.Context) error {
	return Render(c, a.Views.StatsPartial(a.Store.Stats()))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// RelatedRecords returns records that share at least one tag with current.
func RelatedRecords(current Record, records []Record) []Record {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Record
	for _, r := range records {
		if r.Slug == current.Slug {
			continue
		}
		for _, t := range r.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, r)
				break
			}
		}
	}
	return related
}
