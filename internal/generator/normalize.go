package generator

import "strings"

// NormalizeUsernames splits free-text input on commas and newlines, then
// trims, lower-cases and drops empty entries. Duplicates are kept, so a name
// listed twice is picked twice as often.
func NormalizeUsernames(raw string) []string {
	return NormalizeList([]string{raw})
}

// NormalizeList applies the NormalizeUsernames rules to every element, so a
// pre-split entry like "x,y" still yields two names and no username ever
// carries a separator into the CSV output.
func NormalizeList(names []string) []string {
	out := make([]string, 0, len(names))
	for _, entry := range names {
		for _, n := range strings.FieldsFunc(entry, isSeparator) {
			n = strings.ToLower(strings.TrimSpace(n))
			if n == "" {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

func isSeparator(r rune) bool {
	return r == ',' || r == '\n' || r == '\r'
}
