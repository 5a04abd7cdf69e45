package actresslib

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminRecord binds the add form to an existing record and
// returns the populated edit-form partial.
func (a *App) handleAdminRecord(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	record, err := a.Store.Get(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	a.State.BeginEdit(slug)
	return Render(c, a.Views.AdminForm(record, CsrfToken(c)))
}

// handleAdminCancel abandons an in-progress edit and returns the form
// to add mode.
func (a *App) handleAdminCancel(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if _, editing := a.State.EditingSlug(); editing {
		a.State.CancelEdit()
		return a.renderAdminDashboard(c, "Edit cancelled")
	}
	return a.renderAdminDashboard(c, "")
}

// recordFromForm builds a Record from the shared add/edit form. This is
// the single form-to-record mapping; the reverse (record to form
// values) lives in the form template.
func recordFromForm(c echo.Context) Record {
	form, _ := c.FormParams()

	names := form["websiteName[]"]
	urls := form["websiteUrl[]"]
	pictures := form["websitePicture[]"]
	types := form["websiteType[]"]

	at := func(vals []string, i int) string {
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	websites := []Website{}
	for i := range names {
		name, url := at(names, i), at(urls, i)
		if name == "" || url == "" {
			continue
		}
		websites = append(websites, Website{
			Name:    name,
			URL:     url,
			Picture: at(pictures, i),
			Type:    NormalizeWebsiteType(at(types, i)),
		})
	}

	return Record{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Category: strings.TrimSpace(c.FormValue("category")),
		Tags:     SplitTags(c.FormValue("tags")),
		Websites: websites,
		Gallery:  SplitLines(c.FormValue("gallery")),
		Thumb:    strings.TrimSpace(c.FormValue("thumb")),
		Favorite: c.FormValue("favorite") != "",
	}
}

// handleAdminSave is the shared add/edit submit handler. A non-empty
// editingSlug field means update; otherwise a new record is created.
func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	record := recordFromForm(c)
	if record.Name == "" {
		return a.renderAdminDashboard(c, "Name is required")
	}
	if record.Category == "" {
		return a.renderAdminDashboard(c, "Category is required")
	}

	editingSlug := strings.TrimSpace(c.FormValue("editingSlug"))
	if editingSlug != "" {
		if _, err := a.Store.Update(editingSlug, record); err != nil {
			if errors.Is(err, ErrNotFound) {
				return a.renderAdminDashboard(c, "Record not found for editing")
			}
			return err
		}
		a.State.FinishEdit()
		return a.renderAdminDashboard(c, fmt.Sprintf("%q updated", record.Name))
	}

	created, err := a.Store.Create(record)
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return a.renderAdminDashboard(c, fmt.Sprintf("%q already exists", record.Name))
		}
		return err
	}
	return a.renderAdminDashboard(c, fmt.Sprintf("%q added", created.Name))
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.Delete(c.Param("slug")); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "Record deleted")
}

// handleAdminBatch applies a batch action (delete or recategorize) to
// the submitted slug set in a single persisted write.
func (a *App) handleAdminBatch(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	form, _ := c.FormParams()
	slugs := make(map[string]struct{})
	for _, s := range form["slugs[]"] {
		if s = strings.TrimSpace(s); s != "" {
			slugs[s] = struct{}{}
		}
	}
	if len(slugs) == 0 {
		return a.renderAdminDashboard(c, "No records selected")
	}

	switch action := c.FormValue("action"); action {
	case "delete":
		n, err := a.Store.DeleteMany(slugs)
		if err != nil {
			return err
		}
		return a.renderAdminDashboard(c, fmt.Sprintf("Deleted %d records", n))
	case "category":
		newCategory := strings.TrimSpace(c.FormValue("newCategory"))
		if newCategory == "" {
			return a.renderAdminDashboard(c, "New category is required")
		}
		n, err := a.Store.Recategorize(slugs, newCategory)
		if err != nil {
			return err
		}
		return a.renderAdminDashboard(c, fmt.Sprintf("Updated category for %d records", n))
	default:
		return a.renderAdminDashboard(c, "Unknown batch action")
	}
}

// handleAdminTemplate appends the submitted form values to the saved
// template list. Templates are write-only: nothing reads them back into
// the store.
func (a *App) handleAdminTemplate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	record := recordFromForm(c)
	tpl := Template{
		Name:     record.Name,
		Category: record.Category,
		Tags:     record.Tags,
		Websites: record.Websites,
	}

	var templates []Template
	if raw, ok, err := a.KV.Get(TemplatesKey); err != nil {
		return err
	} else if ok {
		// A corrupt template list is not worth failing the save over.
		_ = json.Unmarshal([]byte(raw), &templates)
	}
	templates = append(templates, tpl)
	data, err := json.Marshal(templates)
	if err != nil {
		return err
	}
	if err := a.KV.Set(TemplatesKey, string(data)); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "Template saved")
}

// handleAdminSettings persists UI preferences: theme, view mode, card
// size, and the toast notification toggle.
func (a *App) handleAdminSettings(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if theme := c.FormValue("theme"); theme != "" {
		if err := a.State.SetTheme(theme); err != nil {
			return err
		}
	}
	if mode := c.FormValue("viewMode"); mode != "" {
		if err := a.State.SetViewMode(mode); err != nil {
			return err
		}
	}
	if size := c.FormValue("cardSize"); size != "" {
		if err := a.State.SetCardSize(size); err != nil {
			return err
		}
	}
	if toasts := c.FormValue("toastNotifications"); toasts != "" {
		if err := a.State.SetToastsEnabled(toasts != "false"); err != nil {
			return err
		}
	}
	return a.renderAdminDashboard(c, "Settings saved")
}

func (a *App) handleAdminClear(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.Clear(); err != nil {
		return err
	}
	a.State.ClearSelection()
	return a.renderAdminDashboard(c, "All data cleared")
}

func (a *App) handleExportJSON(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	data, err := a.Codec.ExportJSON(a.Store.Records())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", ExportJSONFilename(time.Now())))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (a *App) handleExportCSV(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	data, err := a.Codec.ExportCSV(a.Store.Records())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", ExportCSVFilename(time.Now())))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

const maxImportSize = 20 << 20 // 20MB

// handleImport ingests a JSON or CSV payload from an uploaded file or a
// user-supplied URL and replaces the entire store. Any failure —
// network, format, storage — leaves the existing data untouched.
func (a *App) handleImport(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	format := c.FormValue("format")
	var payload []byte

	if url := strings.TrimSpace(c.FormValue("url")); url != "" {
		data, err := a.fetchImportURL(url)
		if err != nil {
			return a.renderAdminDashboard(c, "Import failed: "+err.Error())
		}
		payload = data
	} else {
		file, err := c.FormFile("file")
		if err != nil {
			return a.renderAdminDashboard(c, "Select a file or enter a URL")
		}
		if file.Size > maxImportSize {
			return a.renderAdminDashboard(c, "Import file too large (max 20MB)")
		}
		src, err := file.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		payload, err = io.ReadAll(src)
		if err != nil {
			return err
		}
		if format == "" && strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
			format = "csv"
		}
	}

	var n int
	var err error
	if format == "csv" {
		n, err = a.Codec.ImportCSV(payload)
	} else {
		n, err = a.Codec.ImportJSON(payload)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			return a.renderAdminDashboard(c, "Import failed: "+err.Error())
		}
		return err
	}
	return a.renderAdminDashboard(c, fmt.Sprintf("Imported %d records", n))
}

// fetchImportURL performs the single GET against a user-supplied URL.
// In-flight requests are not cancellable once started; a failure is
// surfaced and the store is left untouched.
func (a *App) fetchImportURL(url string) ([]byte, error) {
	resp, err := a.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImportSize))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return data, nil
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	var editing *Record
	if slug, ok := a.State.EditingSlug(); ok {
		if record, err := a.Store.Get(slug); err == nil {
			editing = &record
		}
	}
	return Render(c, a.Views.AdminDashboard(a.Store.Records(), a.Store.Categories(), editing, msg, CsrfToken(c)))
}
