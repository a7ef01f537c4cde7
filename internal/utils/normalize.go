package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var wsRe = regexp.MustCompile(`\s+`)
var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)
var multiDash = regexp.MustCompile(`\-+`)

func NormalizeNameLower(s string) string {
	s = strings.TrimSpace(s)
	s = wsRe.ReplaceAllString(s, " ")
	return strings.ToLower(s)
}

func Slugify(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	t := norm.NFKD.String(name)
	b := make([]rune, 0, len(t))
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b = append(b, unicode.ToLower(r))
			continue
		}
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			b = append(b, '-')
			continue
		}
	}
	out := string(b)
	out = nonSlug.ReplaceAllString(out, "-")
	out = multiDash.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	return out
}

// KeywordsFromName builds the token set stored for prefix-free name search.
func KeywordsFromName(nameLower, slug string) []string {
	if nameLower == "" {
		return nil
	}
	parts := strings.Fields(nameLower)
	kw := make([]string, 0, len(parts)+2)
	seen := map[string]bool{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		kw = append(kw, s)
	}
	for _, p := range parts {
		add(p)
	}
	add(nameLower)
	if slug != "" {
		add(strings.ReplaceAll(slug, "-", " "))
		add(slug)
	}
	return kw
}

// NormalizeToken creates a search token from a string.
func NormalizeToken(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = wsRe.ReplaceAllString(s, " ")
	return s
}

// TrimMax trims a string to a maximum length.
func TrimMax(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max]
}
