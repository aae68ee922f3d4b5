package menu

import "strings"

// ExtractSpecial pulls the single "special" line out of the snack-bar
// calendar feed. Only the first record counts. Its description is split on
// bold-tag boundaries and the first segment mentioning "special" (any
// case) is kept; everything after the keyword, decoded and stripped of
// tags, is the special line. Returns ok=false when there is no record or
// no segment mentions the keyword.
func ExtractSpecial(raws []RawMeal) (string, bool) {
	if len(raws) == 0 {
		return "", false
	}

	var segment string
	found := false
	for _, seg := range strings.Split(raws[0].Description, "<b>") {
		if strings.Contains(strings.ToLower(seg), "special") {
			segment = seg
			found = true
			break
		}
	}
	if !found {
		return "", false
	}

	// Entities are decoded before the keyword split here, unlike the
	// station parser, so an encoded keyword still matches.
	decoded := DecodeEntities(segment)
	rest := ""
	if i := strings.Index(strings.ToLower(decoded), "special"); i >= 0 {
		rest = decoded[i+len("special"):]
	}
	return strings.TrimSpace(StripTags(rest)), true
}
