package columns

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Candidate is a (header, field) pair with a positive score
type Candidate struct {
	Index  int    `json:"index"`
	Header string `json:"header"`
	Field  Field  `json:"field"`
	Score  int    `json:"score"`
}

// Normalizer scores headers against a rule table and assigns each canonical
// field to at most one header.
type Normalizer struct {
	rules []Rule
}

// NewNormalizer creates a normalizer over the given rule table.
// With no rules the default table is used.
func NewNormalizer(rules ...Rule) *Normalizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

var defaultNormalizer = NewNormalizer()

// Normalize maps headers onto canonical fields using the default rule table
func Normalize(headers []string) Mapping {
	return defaultNormalizer.Normalize(headers)
}

// Canonicalize folds a raw header into the form rules match against:
// NFKC-normalized, whitespace collapsed, trimmed and uppercased.
func Canonicalize(header string) string {
	folded := norm.NFKC.String(header)
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

// Score returns the summed score of every rule for field that accepts header
func (n *Normalizer) Score(field Field, header string) int {
	return n.score(field, Canonicalize(header))
}

func (n *Normalizer) score(field Field, c string) int {
	if c == "" {
		return 0
	}
	total := 0
	for _, r := range n.rules {
		if r.Field == field && r.Match(c) {
			total += r.Score
		}
	}
	return total
}

// Candidates computes every positive (header, field) score without assigning anything.
// The result is ordered by header position, then field.
func (n *Normalizer) Candidates(headers []string) []Candidate {
	var out []Candidate
	for i, h := range headers {
		c := Canonicalize(h)
		for _, f := range Fields {
			if s := n.score(f, c); s > 0 {
				out = append(out, Candidate{Index: i, Header: h, Field: f, Score: s})
			}
		}
	}
	return out
}

// Normalize assigns fields greedily: the highest scoring candidate across all
// fields wins first, ties going to the earlier header, and both its header and
// field leave contention. Headers without a winning candidate are omitted.
func (n *Normalizer) Normalize(headers []string) Mapping {
	candidates := n.Candidates(headers)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return fieldRank(a.Field) < fieldRank(b.Field)
	})

	takenField := make(map[Field]bool, len(Fields))
	takenHeader := make(map[string]bool)
	var entries []Entry

	for _, cand := range candidates {
		if takenField[cand.Field] || takenHeader[cand.Header] {
			continue
		}
		takenField[cand.Field] = true
		takenHeader[cand.Header] = true
		entries = append(entries, Entry{
			Index:  cand.Index,
			Header: cand.Header,
			Field:  cand.Field,
			Score:  cand.Score,
		})
		if len(takenField) == len(Fields) {
			break
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return Mapping{entries: entries}
}

func fieldRank(f Field) int {
	for i, x := range Fields {
		if x == f {
			return i
		}
	}
	return len(Fields)
}
