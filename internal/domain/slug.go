package domain

import "strings"

// Slugify derives a URL slug from a display name: lowercase, strip
// characters that are not alphanumeric, hyphen, or space, collapse
// whitespace runs to single hyphens, collapse repeated hyphens, and trim
// leading/trailing hyphens.
func Slugify(name string) string {
	lower := strings.ToLower(name)

	var cleaned strings.Builder
	cleaned.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == ' ':
			cleaned.WriteRune(r)
		}
	}

	parts := strings.Fields(cleaned.String())
	slug := strings.Join(parts, "-")

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
