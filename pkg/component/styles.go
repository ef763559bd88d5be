package component

import "strings"

// stylesheetDirs is the ordered list of locations tried when loading a
// component's by-convention stylesheet.
var stylesheetDirs = []string{
	"/styles/components/",
	"/styles/",
	"/css/",
}

// Slug derives the stylesheet file stem from a component name: lower-cased,
// any trailing "component" stripped, runs of non-alphanumerics collapsed to
// single hyphens, and the component suffix reappended.
//
//	Slug("UserCard")          = "usercard-component"
//	Slug("user_cardComponent") = "user-card-component"
func Slug(name string) string {
	base := strings.ToLower(name)
	base = strings.TrimSuffix(base, "component")

	var sb strings.Builder
	hyphen := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				hyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(sb.String(), "-")
	if slug == "" {
		return "component"
	}
	return slug + "-component"
}

// StylesheetCandidates returns the ordered candidate paths tried for a
// component's stylesheet. Load failures are silently skipped; the first
// success wins.
func StylesheetCandidates(name string) []string {
	file := Slug(name) + ".css"
	out := make([]string, 0, len(stylesheetDirs))
	for _, dir := range stylesheetDirs {
		out = append(out, dir+file)
	}
	return out
}
