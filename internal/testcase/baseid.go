package testcase

import (
	"regexp"
	"strings"
)

// GenericBaseID is minted when no usable tokens exist in the input.
const GenericBaseID = "TC_GENERIC"

var (
	nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]`)
	wordRe     = regexp.MustCompile(`[A-Za-z0-9_]{3,}`)
)

// BaseID derives the deterministic id prefix shared by every case generated
// from one input. The synthesizer appends per-case suffixes; uniqueness
// within a run comes from its fixed numbering, not from this prefix.
func BaseID(n NormalizedInput) string {
	switch v := n.(type) {
	case APIInput:
		return "TC_" + strings.ToUpper(nonAlnumRe.ReplaceAllString(v.Endpoint, "_"))
	case UserStoryInput:
		return narrativeBaseID(v.Content)
	case RawTextInput:
		return narrativeBaseID(v.Content)
	default:
		return GenericBaseID
	}
}

// narrativeBaseID builds an id from the first three words of length >= 3.
func narrativeBaseID(content string) string {
	words := wordRe.FindAllString(content, 3)
	if len(words) == 0 {
		return GenericBaseID
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return "TC_" + strings.Join(words, "_")
}
