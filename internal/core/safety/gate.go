// Package safety implements the crisis keyword gate. It is advisory
// only: a hit surfaces a warning to the user but never suppresses the
// generated response. The phrase list is small and exact-substring, so
// false negatives are expected; this must never be the sole safety
// mechanism.
package safety

import "strings"

var crisisPhrases = []string{
	"suicide",
	"kill myself",
	"end it all",
	"worthless",
	"can't go on",
	"hurt myself",
	"self harm",
	"want to disappear",
	"no reason to live",
}

// DetectCrisis reports whether text contains any crisis phrase,
// case-insensitively.
func DetectCrisis(text string) bool {
	t := strings.ToLower(text)
	for _, phrase := range crisisPhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}
