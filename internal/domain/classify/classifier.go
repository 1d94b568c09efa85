// Package classify maps free-text transaction descriptions to spending
// categories using ordered keyword-containment rules.
package classify

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Category labels assigned by the classifier. The set is open-ended: users can
// add their own categories, but imports only ever produce these.
const (
	Groceries      = "Groceries"
	EatingOut      = "Eating out"
	HouseholdGoods = "Household Goods"
	Gas            = "Gas"
	Utilities      = "Utilities"
	Health         = "Health"
	Travel         = "Travel"
	Bills          = "Bills"
	FunMisc        = "Fun / Misc"
	Gifts          = "Gifts"
	BusinessSchool = "Business School"
	Uncategorized  = "Uncategorized"
)

// keywordGroup is one ordered rule set. Groups are evaluated in slice order
// and the first group containing a matching keyword wins, regardless of which
// keyword inside the group matched.
type keywordGroup struct {
	category string
	keywords []string
}

// keywordGroups holds the classification rules in priority order. A
// description matching keywords in several groups gets the earliest group's
// category, so the more specific merchant lists come first.
var keywordGroups = []keywordGroup{
	{Groceries, []string{
		"whole foods", "trader joe", "safeway", "kroger", "wegmans", "costco",
		"aldi", "publix", "h-e-b", "grocery", "supermarket", "fresh market",
	}},
	{EatingOut, []string{
		"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "chipotle",
		"burger", "pizza", "taco", "sushi", "doordash", "grubhub", "uber eats",
		"bakery", "deli", "diner",
	}},
	{HouseholdGoods, []string{
		"amazon", "target", "walmart", "home depot", "lowes", "ikea",
		"bed bath", "container store", "wayfair", "hardware",
	}},
	{Gas, []string{
		"shell", "chevron", "exxon", "mobil", "sunoco", "valero", "76 ",
		"gas station", "fuel", "speedway",
	}},
	{Utilities, []string{
		"electric", "water", "sewer", "internet", "comcast", "xfinity",
		"verizon", "at&t", "t-mobile", "utility", "power", "energy",
	}},
	{Health, []string{
		"pharmacy", "cvs", "walgreens", "dental", "medical", "doctor",
		"clinic", "hospital", "vision", "optometry", "urgent care",
	}},
	{Travel, []string{
		"airline", "airlines", "delta", "united", "southwest", "jetblue",
		"hotel", "marriott", "hilton", "hyatt", "airbnb", "uber", "lyft",
		"amtrak", "rental car", "hertz",
	}},
	{Bills, []string{
		"insurance", "membership", "subscription", "annual fee",
		"service fee", "dues", "interest charge",
	}},
	{FunMisc, []string{
		"netflix", "spotify", "hulu", "cinema", "theater", "movie",
		"concert", "ticketmaster", "steam", "nintendo", "playstation",
		"bar ", "brewery",
	}},
	{Gifts, []string{
		"gift", "florist", "flowers", "registry",
	}},
}

// Classifier assigns a category to a transaction description. It is stateless
// after construction: the same description always yields the same category.
type Classifier struct {
	matcher  *ahocorasick.Matcher
	patterns []patternMeta
}

type patternMeta struct {
	group    int // ordinal into keywordGroups; lower wins
	category string
}

// New builds a classifier from the default keyword groups. All keywords are
// folded into a single Aho-Corasick matcher so every group is tested in one
// pass over the description; the group ordinal attached to each pattern
// preserves the ordered first-match-wins semantics.
func New() *Classifier {
	var byteKeywords [][]byte
	var patterns []patternMeta

	for groupIdx, group := range keywordGroups {
		for _, kw := range group.keywords {
			byteKeywords = append(byteKeywords, []byte(strings.ToLower(kw)))
			patterns = append(patterns, patternMeta{group: groupIdx, category: group.category})
		}
	}

	return &Classifier{
		matcher:  ahocorasick.NewMatcher(byteKeywords),
		patterns: patterns,
	}
}

// Categorize returns the category for the given description, or
// Uncategorized when no keyword list matches.
func (c *Classifier) Categorize(description string) string {
	lowered := strings.ToLower(description)

	matches := c.matcher.Match([]byte(lowered))
	if len(matches) == 0 {
		return Uncategorized
	}

	best := -1
	category := Uncategorized
	for _, idx := range matches {
		if idx < 0 || idx >= len(c.patterns) {
			continue
		}
		meta := c.patterns[idx]
		if best == -1 || meta.group < best {
			best = meta.group
			category = meta.category
		}
	}

	return category
}

// CategorizeBatch categorizes many descriptions in one call.
func (c *Classifier) CategorizeBatch(descriptions []string) []string {
	results := make([]string, len(descriptions))
	for i, desc := range descriptions {
		results[i] = c.Categorize(desc)
	}
	return results
}

// Categories returns the classifier's output vocabulary in priority order,
// without the Uncategorized fallback.
func Categories() []string {
	out := make([]string, len(keywordGroups))
	for i, g := range keywordGroups {
		out[i] = g.category
	}
	return out
}
