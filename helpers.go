package actresslib

import (
	"net/url"
	"path"
	"strings"
)

// Slugify derives a record slug from a display name: lowercase, with
// every character outside [a-z0-9] replaced by '-'. The mapping is lossy
// and non-reversible — distinct names can collide on the same slug, and
// Create rejects exact-slug collisions only.
func Slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitTags parses a comma-separated tag field into a trimmed slice.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return FilterEmpty(parts)
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// SplitLines parses a textarea value into one entry per non-empty line.
func SplitLines(s string) []string {
	return FilterEmpty(strings.Split(s, "\n"))
}

// NormalizeWebsiteType maps unknown website types to TypeDefault.
func NormalizeWebsiteType(t string) string {
	switch t {
	case TypeOfficial, TypeInstagram, TypeTwitter, TypeWikipedia,
		TypeFacebook, TypeYouTube, TypeMega, TypeReddit:
		return t
	}
	return TypeDefault
}
