package service

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const maxSlugLength = 120

// Slugify lowercases s, strips diacritics and joins words with hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

// uniqueSlug returns base, or base-N for the first N >= 2 not yet used in
// model's table. Soft-deleted rows count as used; excludeID is ignored.
func uniqueSlug(tx *gorm.DB, model interface{}, base, fallback string, excludeID uint) (string, error) {
	base = Slugify(base)
	if base == "" {
		base = fallback
	}

	var taken []string
	query := tx.Unscoped().Model(model).
		Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Pluck("slug", &taken).Error; err != nil {
		return "", err
	}

	used := make(map[string]struct{}, len(taken))
	for _, slug := range taken {
		used[slug] = struct{}{}
	}

	candidate := base
	for n := 2; ; n++ {
		if _, ok := used[candidate]; !ok {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
