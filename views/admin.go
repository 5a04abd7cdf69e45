package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	actresslib "github.com/ar-bappy-171/actresslib"
)

// AdminLogin renders the password form, with an error line after a
// failed attempt.
func AdminLogin(cfg actresslib.SiteConfig, showError bool, csrf string) templ.Component {
	return layout(cfg, actresslib.PageMeta{Title: "Admin — " + cfg.Name}, "", func(w io.Writer) error {
		errLine := ""
		if showError {
			errLine = "<p class=\"error\">Wrong password</p>\n"
		}
		_, err := fmt.Fprintf(w, `<section class="admin-login">
<h1>Admin</h1>
%s<form method="post" action="/admin/login/">
<input type="hidden" name="_csrf" value="%s">
<input type="password" name="password" placeholder="Password" autofocus>
<button type="submit">Sign in</button>
</form>
</section>
`, errLine, esc(csrf))
		return err
	})
}

// AdminDashboard renders the full admin panel: message line, the shared
// add/edit form, the manage list with batch actions, import/export, and
// settings.
func AdminDashboard(cfg actresslib.SiteConfig, records []actresslib.Record, categories []string, editing *actresslib.Record, msg, csrf string) templ.Component {
	return layout(cfg, actresslib.PageMeta{Title: "Admin — " + cfg.Name}, "", func(w io.Writer) error {
		if msg != "" {
			if _, err := fmt.Fprintf(w, "<p class=\"flash\">%s</p>\n", esc(msg)); err != nil {
				return err
			}
		}
		if err := writeAdminForm(w, editing, csrf); err != nil {
			return err
		}
		if err := writeManageList(w, records, csrf); err != nil {
			return err
		}
		if err := writeImportExport(w, csrf); err != nil {
			return err
		}
		return writeSettings(w, csrf)
	})
}

// adminForm renders the shared add/edit form. A nil record means add
// mode; otherwise every field is populated from the record snapshot and
// the hidden editingSlug field switches the submit handler to update.
func adminForm(r *actresslib.Record, csrf string) templ.Component {
	return component(func(w io.Writer) error {
		return writeAdminForm(w, r, csrf)
	})
}

func writeAdminForm(w io.Writer, r *actresslib.Record, csrf string) error {
	var record actresslib.Record
	heading := "Add profile"
	if r != nil {
		record = *r
		heading = "Edit " + record.Name
	}
	editingSlug := record.Slug
	if _, err := fmt.Fprintf(w, `<section class="admin-form">
<h2>%s</h2>
<form method="post" action="/admin/save/">
<input type="hidden" name="_csrf" value="%s">
<input type="hidden" name="editingSlug" value="%s">
<input type="text" name="name" value="%s" placeholder="Name" required>
<input type="text" name="category" value="%s" placeholder="Category" required>
<input type="text" name="tags" value="%s" placeholder="Tags, comma separated">
<input type="url" name="thumb" value="%s" placeholder="Thumbnail URL">
<textarea name="gallery" placeholder="Gallery URLs, one per line">%s</textarea>
`, esc(heading), esc(csrf), esc(editingSlug), esc(record.Name), esc(record.Category),
		esc(strings.Join(record.Tags, ", ")), esc(record.Thumb),
		esc(strings.Join(record.Gallery, "\n"))); err != nil {
		return err
	}

	// Website rows are data-driven: one fieldset per existing row
	// plus a blank one for additions.
	rows := append([]actresslib.Website{}, record.Websites...)
	rows = append(rows, actresslib.Website{})
	for _, site := range rows {
		if err := writeWebsiteRow(w, site); err != nil {
			return err
		}
	}

	favorite := ""
	if record.Favorite {
		favorite = " checked"
	}
	cancel := ""
	if editingSlug != "" {
		cancel = "<button type=\"submit\" formaction=\"/admin/cancel/\" formnovalidate>Cancel edit</button>\n"
	}
	_, err := fmt.Fprintf(w, `<label><input type="checkbox" name="favorite"%s> Favorite</label>
<button type="submit">Save</button>
<button type="submit" formaction="/admin/template/" formnovalidate>Save as template</button>
%s</form>
</section>
`, favorite, cancel)
	return err
}

var websiteTypes = []string{
	actresslib.TypeOfficial,
	actresslib.TypeInstagram,
	actresslib.TypeTwitter,
	actresslib.TypeWikipedia,
	actresslib.TypeFacebook,
	actresslib.TypeYouTube,
	actresslib.TypeMega,
	actresslib.TypeReddit,
	actresslib.TypeDefault,
}

func writeWebsiteRow(w io.Writer, site actresslib.Website) error {
	if _, err := fmt.Fprintf(w, `<fieldset class="website-row">
<input type="text" name="websiteName[]" value="%s" placeholder="e.g. Instagram">
<input type="url" name="websiteUrl[]" value="%s" placeholder="https://...">
<input type="url" name="websitePicture[]" value="%s" placeholder="Icon URL (optional)">
<select name="websiteType[]">
`, esc(site.Name), esc(site.URL), esc(site.Picture)); err != nil {
		return err
	}
	for _, t := range websiteTypes {
		selected := ""
		if t == site.Type {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, "<option value=\"%s\"%s>%s</option>\n", t, selected, esc(titleCase(t))); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</select>\n</fieldset>\n")
	return err
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeManageList(w io.Writer, records []actresslib.Record, csrf string) error {
	if _, err := fmt.Fprintf(w, `<section class="admin-manage">
<h2>Manage</h2>
<form method="post" action="/admin/batch/">
<input type="hidden" name="_csrf" value="%s">
<select name="action">
<option value="delete">Delete selected</option>
<option value="category">Change category</option>
</select>
<input type="text" name="newCategory" placeholder="New category">
<button type="submit">Apply</button>
<table>
<tr><th></th><th>Name</th><th>Category</th><th>Views</th><th></th></tr>
`, esc(csrf)); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, `<tr>
<td><input type="checkbox" name="slugs[]" value="%s"></td>
<td>%s</td>
<td>%s</td>
<td>%d</td>
<td>
<button type="button" hx-get="/admin/record/%s/" hx-target="closest section">Edit</button>
<button type="button" hx-delete="/admin/record/%s/" hx-headers='{"X-CSRF-Token":"%s"}' hx-confirm="Delete %s?">Delete</button>
</td>
</tr>
`, esc(r.Slug), esc(r.Name), esc(r.Category), r.Views, esc(r.Slug), esc(r.Slug), esc(csrf), esc(r.Name)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</table>\n</form>\n</section>\n")
	return err
}

func writeImportExport(w io.Writer, csrf string) error {
	_, err := fmt.Fprintf(w, `<section class="admin-io">
<h2>Import / Export</h2>
<p><a href="/admin/export/json/">Export JSON</a> · <a href="/admin/export/csv/">Export CSV</a></p>
<form method="post" action="/admin/import/" enctype="multipart/form-data"
  onsubmit="return confirm('Importing replaces all existing data. Continue?')">
<input type="hidden" name="_csrf" value="%s">
<select name="format">
<option value="json">JSON</option>
<option value="csv">CSV</option>
</select>
<input type="file" name="file" accept=".json,.csv">
<input type="url" name="url" placeholder="...or import from URL">
<button type="submit">Import</button>
</form>
<form method="post" action="/admin/clear/"
  onsubmit="return confirm('ARE YOU SURE? This permanently deletes ALL data.') &amp;&amp; confirm('Last warning. All data will be lost forever.')">
<input type="hidden" name="_csrf" value="%s">
<button type="submit">Clear all data</button>
</form>
</section>
`, esc(csrf), esc(csrf))
	return err
}

func writeSettings(w io.Writer, csrf string) error {
	_, err := fmt.Fprintf(w, `<section class="admin-settings">
<h2>Settings</h2>
<form method="post" action="/admin/settings/">
<input type="hidden" name="_csrf" value="%s">
<select name="theme">
<option value="">Theme…</option>
<option value="auto">Auto</option>
<option value="dark">Dark</option>
<option value="light">Light</option>
</select>
<select name="viewMode">
<option value="">View mode…</option>
<option value="grid">Grid</option>
<option value="masonry">Masonry</option>
<option value="list">List</option>
<option value="slideshow">Slideshow</option>
</select>
<select name="cardSize">
<option value="">Card size…</option>
<option value="small">Small</option>
<option value="medium">Medium</option>
<option value="large">Large</option>
</select>
<select name="toastNotifications">
<option value="">Notifications…</option>
<option value="true">Enabled</option>
<option value="false">Disabled</option>
</select>
<button type="submit">Save settings</button>
</form>
<p><a href="/admin/images/">Thumbnail library</a></p>
</section>
`, esc(csrf))
	return err
}

// AdminImages renders the thumbnail upload library.
func AdminImages(cfg actresslib.SiteConfig, images []actresslib.Image, csrf string) templ.Component {
	return layout(cfg, actresslib.PageMeta{Title: "Images — " + cfg.Name}, "", func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="admin-images">
<h2>Thumbnail library</h2>
<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">
<input type="hidden" name="_csrf" value="%s">
<input type="file" name="image" accept="image/*">
<button type="submit">Upload</button>
</form>
<ul>
`, esc(csrf)); err != nil {
			return err
		}
		for _, img := range images {
			if _, err := fmt.Fprintf(w, `<li>
<img src="/public/uploads/%s" alt="%s" width="120">
<code>/public/uploads/%s</code> (%dx%d)
<button type="button" hx-delete="/admin/images/%s/" hx-headers='{"X-CSRF-Token":"%s"}'>Delete</button>
</li>
`, esc(img.Filename), esc(img.OriginalName), esc(img.Filename), img.Width, img.Height, esc(img.Filename), esc(csrf)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n<p><a href=\"/admin/\">Back</a></p>\n</section>\n")
		return err
	})
}
