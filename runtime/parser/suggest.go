package parser

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opal-lang/crux/runtime/lexer"
)

// maxKeywordDistance is the largest edit distance still treated as a typo.
const maxKeywordDistance = 2

// keywords returns the reserved words of the active pattern table.
func (p *parser) keywords() []string {
	patterns := p.config.patterns
	if patterns == nil {
		patterns = lexer.DefaultPatterns()
	}
	return patterns.Keywords()
}

// suggestKeyword returns the keyword word most likely meant, or "".
// Abbreviations ("cnst") are found by fuzzy ranking and must share the first
// letter; transpositions and extra letters ("cosnt", "lett") by edit distance.
func suggestKeyword(word string, keywords []string) string {
	if word == "" || len(keywords) == 0 {
		return ""
	}

	if len(word) > 1 {
		ranks := fuzzy.RankFindFold(word, keywords)
		sort.Sort(ranks)
		for _, r := range ranks {
			if strings.EqualFold(r.Target[:1], word[:1]) {
				return r.Target
			}
		}
	}

	best, bestDistance := "", maxKeywordDistance+1
	for _, kw := range keywords {
		if d := fuzzy.LevenshteinDistance(word, kw); d < bestDistance {
			best, bestDistance = kw, d
		}
	}
	return best
}
