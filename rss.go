package actresslib

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// handleFeed serves an RSS feed of the most recently added profiles.
func (a *App) handleFeed(c echo.Context) error {
	records := SortRecords(a.Store.Records(), SortRecent)
	if len(records) > 20 {
		records = records[:20]
	}
	return a.renderRSS(c, records)
}

func (a *App) renderRSS(c echo.Context, records []Record) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(records))
	for _, r := range records {
		profileURL := BuildURL(base, "profile", r.Slug)
		items = append(items, rssItem{
			Title:       r.Name,
			Link:        profileURL,
			Description: r.Category + " — " + JoinTags(r.Tags),
			PubDate:     r.CreatedAt.Format(time.RFC1123Z),
			GUID:        profileURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
