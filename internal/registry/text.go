// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"regexp"
	"strings"
)

var (
	fkzPattern     = regexp.MustCompile(`[A-Z0-9/]{3,10}`)
	urlPattern     = regexp.MustCompile(`https?://[^\s]+`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ExtractFKZ returns grant-identifier-like tokens in order of appearance.
func ExtractFKZ(s string) []string {
	return matches(fkzPattern, s)
}

// ExtractURLs returns http(s) URLs in order of appearance.
func ExtractURLs(s string) []string {
	return matches(urlPattern, s)
}

// RemoveHTMLTags deletes anything that looks like a markup tag.
func RemoveHTMLTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

// RemoveURLs deletes http(s) URLs.
func RemoveURLs(s string) string {
	return urlPattern.ReplaceAllString(s, "")
}

// SplitEntries splits a multi-valued cell on &, | and ; and drops empty,
// whitespace-only parts.
func SplitEntries(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '&' || r == '|' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matches(re *regexp.Regexp, s string) []string {
	m := re.FindAllString(s, -1)
	if m == nil {
		return []string{}
	}
	return m
}
