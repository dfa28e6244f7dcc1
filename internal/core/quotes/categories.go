package quotes

import "sort"

// DefaultCategory is used when a session has no persisted index and
// names no theme.
const DefaultCategory = "Motivation"

// Categories holds the built-in quote themes a user can pick before
// uploading a set of their own.
var Categories = map[string][]string{
	"Grief": {
		"Grief is the price we pay for love.",
		"Tears are the silent language of grief.",
		"What we have once enjoyed we can never lose; all that we love deeply becomes a part of us.",
	},
	"Motivation": {
		"Believe in yourself and all that you are.",
		"Tough times never last, but tough people do.",
		"The only way to do great work is to love what you do.",
	},
	"Healing": {
		"Every wound has its own time to heal.",
		"It's okay to take your time to feel better.",
		"Healing is not linear, and that's perfectly okay.",
	},
	"Relationships": {
		"The best relationships are built on trust.",
		"Love is not about possession but appreciation.",
		"Healthy relationships require both people to show up authentically.",
	},
}

// CategoryQuotes returns the quotes of a built-in theme.
func CategoryQuotes(name string) ([]string, bool) {
	qs, ok := Categories[name]
	return qs, ok
}

// CategoryNames lists the built-in themes in stable order.
func CategoryNames() []string {
	names := make([]string, 0, len(Categories))
	for name := range Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
