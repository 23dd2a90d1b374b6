package columns

import (
	"strings"
	"unicode"
)

// Rule is one scoring signal for a canonical field.
// A header's score for a field is the sum of the scores of every rule of that
// field whose Match accepts the canonical header text.
type Rule struct {
	Name  string
	Field Field
	Score int
	Match func(c string) bool
}

var (
	isinLabels = []string{"ISIN", "ISIN CODE", "ISIN NO", "ISIN NUMBER"}

	nameEntityKeywords = []string{"COMPANY", "SECURITY", "STOCK", "SCHEME", "FUND"}
	nameLabels         = []string{"DESCRIPTION", "SCRIP", "SCRIPT", "PARTICULARS"}

	weightKeywords = []string{"AUM", "ASSET", "NAV", "WEIGHT", "ALLOCATION", "HOLDING", "PORTFOLIO"}
	weightLabels   = []string{"WEIGHT", "WEIGHTAGE", "ALLOCATION", "PORTFOLIO WEIGHT", "% TO AUM", "AUM %"}
)

// DefaultRules returns the rule table covering the AMC disclosure formats seen so far.
// New formats are supported by adding rows, not branches.
func DefaultRules() []Rule {
	return []Rule{
		// Identifier
		{Name: "isin-substring", Field: FieldIdentifier, Score: 100, Match: contains("ISIN")},
		{Name: "isin-label", Field: FieldIdentifier, Score: 10, Match: equalsAny(isinLabels...)},

		// Name: "Instrument Name" (10) must outrank "Issuer Name" (8)
		{Name: "name-substring", Field: FieldName, Score: 5, Match: contains("NAME")},
		{Name: "instrument-keyword", Field: FieldName, Score: 5, Match: allOf(contains("INSTRUMENT"), nameContext)},
		{Name: "issuer-keyword", Field: FieldName, Score: 3, Match: allOf(contains("ISSUER"), nameContext)},
		{Name: "entity-keyword", Field: FieldName, Score: 2, Match: allOf(containsAny(nameEntityKeywords...), contains("NAME"))},
		{Name: "description-label", Field: FieldName, Score: 6, Match: equalsAny(nameLabels...)},

		// Weight
		{Name: "percent-keyword", Field: FieldWeight, Score: 10, Match: allOf(contains("%"), containsAny(weightKeywords...))},
		{Name: "weight-label", Field: FieldWeight, Score: 8, Match: equalsAny(weightLabels...)},
		{Name: "weight-substring", Field: FieldWeight, Score: 6, Match: allOf(containsAny("WEIGHT", "ALLOC"), not(contains("NET")))},
		{Name: "percent-share", Field: FieldWeight, Score: 4, Match: allOf(contains("%"), hasWordAny("TO", "OF"))},
	}
}

// nameContext accepts headers such as "Instrument Name" or "Name of the Instrument"
func nameContext(c string) bool {
	return strings.Contains(c, "NAME") || strings.Contains(c, "OF THE")
}

func contains(sub string) func(string) bool {
	return func(c string) bool { return strings.Contains(c, sub) }
}

func containsAny(subs ...string) func(string) bool {
	return func(c string) bool {
		for _, s := range subs {
			if strings.Contains(c, s) {
				return true
			}
		}
		return false
	}
}

func equalsAny(labels ...string) func(string) bool {
	return func(c string) bool {
		for _, l := range labels {
			if c == l {
				return true
			}
		}
		return false
	}
}

func hasWordAny(words ...string) func(string) bool {
	return func(c string) bool {
		tokens := strings.FieldsFunc(c, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, t := range tokens {
			for _, w := range words {
				if t == w {
					return true
				}
			}
		}
		return false
	}
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(c string) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

func not(pred func(string) bool) func(string) bool {
	return func(c string) bool { return !pred(c) }
}
