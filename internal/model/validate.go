package model

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxTagLength is the maximum number of characters in a tag.
const MaxTagLength = 50

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateName trims name and rejects it if empty.
func ValidateName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationErr(field, "%s is required and cannot be empty", field)
	}
	return name, nil
}

// ValidateColor checks for a #rrggbb hex color.
func ValidateColor(color string) error {
	if !hexColor.MatchString(color) {
		return validationErr("color", "invalid color %q: use a hex color such as #28a745", color)
	}
	return nil
}

// ValidateCover accepts an empty cover, a local relative path, or a file:// URL.
// Web URLs are rejected: covers must be local images.
func ValidateCover(cover string) error {
	if cover == "" || strings.HasPrefix(cover, "local-file://") {
		return nil
	}
	u, err := url.Parse(cover)
	if err != nil {
		return validationErr("cover", "invalid cover %q: %v", cover, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "", "file":
		return nil
	case "http", "https":
		return validationErr("cover", "invalid cover %q: web images are not allowed, use a local file", cover)
	}
	// "C:\..." parses with a one-letter scheme.
	if len(u.Scheme) == 1 {
		return nil
	}
	return validationErr("cover", "invalid cover %q: use a relative path or a file:// URL", cover)
}

// IsValidLink reports whether link parses as an http, https or file URL.
func IsValidLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "file":
		return true
	}
	return false
}

// NormalizeLinks trims links, drops empty ones and rejects invalid URLs.
func NormalizeLinks(links []string) ([]string, error) {
	result := []string{}
	var invalid []string
	for i, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		if !IsValidLink(link) {
			invalid = append(invalid, fmt.Sprintf("Link %d: %q", i+1, link))
			continue
		}
		result = append(result, link)
	}
	if len(invalid) > 0 {
		return nil, validationErr("links",
			"invalid link URLs: %s; use URLs starting with http://, https:// or file://",
			strings.Join(invalid, ", "))
	}
	return result, nil
}

// ValidateTags trims tags, rejects empty or overlong ones and drops duplicates.
func ValidateTags(tags []string) ([]string, error) {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return nil, validationErr("tags", "empty tags are not allowed")
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, validationErr("tags", "tag %q is too long: maximum length is %d characters", tag, MaxTagLength)
		}
		if !slices.Contains(result, tag) {
			result = append(result, tag)
		}
	}
	return result, nil
}

// ParseTags splits semicolon separated tag input, e.g. "go; docs;". Blank
// input yields nil so tag defaults still apply.
func ParseTags(input string) ([]string, error) {
	var tags []string
	for _, part := range strings.Split(input, ";") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return ValidateTags(tags)
}

// FormatTags renders tags the way ParseTags reads them.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return strings.Join(tags, "; ") + ";"
}

func appendChange(changes []string, field, from, to string) []string {
	if from == to {
		return changes
	}
	return append(changes, fmt.Sprintf("%s from %q to %q", field, from, to))
}

func appendListChange(changes []string, field string, from, to []string) []string {
	if slices.Equal(slices.Sorted(slices.Values(from)), slices.Sorted(slices.Values(to))) {
		return changes
	}
	return append(changes, fmt.Sprintf("%s (%d → %d)", field, len(from), len(to)))
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}
