// Package actresslib is a profile catalog engine built with Go, Echo,
// and templ. It provides a searchable card grid, profile pages with
// view tracking, an admin panel for CRUD and batch operations, and
// JSON/CSV import/export, all persisted through a SQLite-backed
// key-value store.
//
// Users provide their own templ components via the ViewFuncs struct,
// and actresslib handles the handler logic, middleware, and storage.
package actresslib

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/ar-bappy-171/actresslib/kv"
)

// GridState bundles everything the grid templates need to render the
// catalog: the (already filtered and sorted) records plus the query and
// preference state that produced them.
type GridState struct {
	Records    []Record
	Categories []string
	Category   string
	Query      string
	SortKey    string
	ViewMode   string
	CardSize   string
	Theme      string
	Stats      Stats
	Total      int
}

// ViewFuncs holds user-provided templ components that the framework
// calls when rendering pages. This is the inversion-of-control
// mechanism that lets users own and customize all templates.
type ViewFuncs struct {
	Home           func(g GridState, siteURL string) templ.Component
	GridPartial    func(g GridState) templ.Component
	Profile        func(r Record, related []Record, siteURL string) templ.Component
	StatsPartial   func(st Stats) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(records []Record, categories []string, editing *Record, message string, csrfToken string) templ.Component
	AdminForm      func(r Record, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central catalog application. It wires together the
// key-value store, the record store, the codec, view state, handlers,
// middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	KV     *kv.Store
	Store  *RecordStore
	Codec  *Codec
	State  *ViewState
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	httpClient   *http.Client
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes storage, middleware and routes, then starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("actresslib: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("actresslib: SessionSecret is required")
	}

	if err := a.initStores(); err != nil {
		return err
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.httpClient = &http.Client{Timeout: 30 * time.Second}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// initStores opens the key-value store, loads the record list (seeding
// on first run), and builds the codec and view state on top.
func (a *App) initStores() error {
	kvs, err := kv.Open(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("actresslib: open storage: %w", err)
	}
	a.KV = kvs

	a.Store = NewRecordStore(kvs)
	if _, err := a.Store.Load(); err != nil {
		return fmt.Errorf("actresslib: load records: %w", err)
	}

	a.Codec = NewCodec(a.Store)
	a.State = NewViewState(kvs)
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/profile/:slug/", a.handleProfile)
	e.GET("/stats/", a.handleStats)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/record/:slug/", a.handleAdminRecord)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/cancel/", a.handleAdminCancel)
	e.DELETE("/admin/record/:slug/", a.handleAdminDelete)
	e.POST("/admin/batch/", a.handleAdminBatch)
	e.POST("/admin/template/", a.handleAdminTemplate)
	e.POST("/admin/settings/", a.handleAdminSettings)
	e.POST("/admin/clear/", a.handleAdminClear)

	// Import/export
	e.GET("/admin/export/json/", a.handleExportJSON)
	e.GET("/admin/export/csv/", a.handleExportCSV)
	e.POST("/admin/import/", a.handleImport)

	// Thumbnail upload library
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.KV != nil {
		return a.KV.Close()
	}
	return nil
}
