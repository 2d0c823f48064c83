package match

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugLen bounds the slug part of an identity so it stays usable as a
// platform label. Identities issued before this implementation used the same
// bound, so it must not change.
const maxSlugLen = 30

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Identity computes the stable deduplication key for a match:
// slugified title truncated to 30 characters, plus the UTC date of the
// kickoff as yyyymmdd. When the kickoff is unknown the date suffix is
// omitted, which degrades uniqueness for recurring fixtures.
func Identity(title string, kickoff int64) string {
	slug := Slugify(title)
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}

	if kickoff <= 0 {
		return slug
	}

	date := time.Unix(kickoff, 0).UTC().Format("20060102")
	return slug + "-" + date
}

// Slugify lower-cases the title, folds accented characters to their base
// form, replaces whitespace runs with single hyphens, drops everything
// outside [a-z0-9_-], and collapses repeated hyphens.
func Slugify(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	prevHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsSpace(r), r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			prevHyphen = false
		}
	}

	return strings.Trim(b.String(), "-")
}
