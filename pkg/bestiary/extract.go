package bestiary

import (
	"regexp"
	"sort"
	"strings"
)

// fallbackPattern captures a capitalized phrase acting hostile, for
// enemies the dictionary does not know.
var fallbackPattern = regexp.MustCompile(
	`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:attacks|lunges|charges|ambushes)\b`)

// Capitalized sentence-starters that are never creature names.
var fallbackStopwords = map[string]bool{
	"he": true, "she": true, "it": true, "they": true, "you": true,
	"the": true, "a": true, "an": true, "then": true, "suddenly": true,
}

// Extractor finds candidate hostile-entity names in narrative text.
type Extractor struct {
	typePatterns map[string]*regexp.Regexp
}

// NewExtractor precompiles a whole-word pattern (with optional plural
// suffix) for every known creature type.
func NewExtractor() *Extractor {
	e := &Extractor{
		typePatterns: make(map[string]*regexp.Regexp, len(templateOrder)),
	}
	for _, name := range templateOrder {
		words := strings.Split(name, " ")
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		pattern := `(?i)\b` + strings.Join(words, `\s+`) + `(?:s|es)?\b`
		e.typePatterns[name] = regexp.MustCompile(pattern)
	}
	return e
}

type candidate struct {
	name  string
	start int
	end   int
}

// Extract returns candidate creature type names in order of appearance.
// Each textual occurrence yields exactly one candidate: numeral
// quantifiers ("two goblins") are not expanded. Dictionary matches take
// precedence over fallback captures covering the same text.
func (e *Extractor) Extract(text string) []string {
	var found []candidate

	for _, name := range templateOrder {
		for _, loc := range e.typePatterns[name].FindAllStringIndex(text, -1) {
			found = append(found, candidate{name: name, start: loc[0], end: loc[1]})
		}
	}

	// Multi-word types can overlap their shorter cousins ("giant
	// spider" vs a hypothetical "spider"); keep the earliest, longest
	// span when two dictionary matches collide.
	sort.Slice(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end > found[j].end
	})
	primary := found[:0]
	lastEnd := -1
	for _, c := range found {
		if c.start < lastEnd {
			continue
		}
		primary = append(primary, c)
		lastEnd = c.end
	}

	candidates := make([]candidate, len(primary))
	copy(candidates, primary)

	for _, loc := range fallbackPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		name := trimLeadingStopwords(text[start:end])
		if name == "" {
			continue
		}
		if containsKnownType(name) {
			continue
		}
		if overlapsAny(start, end, candidates) {
			continue
		}
		candidates = append(candidates, candidate{name: name, start: start, end: end})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].start < candidates[j].start
	})

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.name)
	}
	return names
}

// trimLeadingStopwords drops capitalized sentence-starters ("The
// Black Knight" → "Black Knight"). Returns "" when nothing but
// stopwords remain, e.g. a bare pronoun.
func trimLeadingStopwords(name string) string {
	words := strings.Fields(name)
	for len(words) > 0 && fallbackStopwords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func containsKnownType(name string) bool {
	lower := strings.ToLower(name)
	for _, t := range templateOrder {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func overlapsAny(start, end int, existing []candidate) bool {
	for _, c := range existing {
		if start < c.end && end > c.start {
			return true
		}
	}
	return false
}
