package news

import (
	"strings"

	"burim-estate/internal/models"
)

// Keywords are the substring sets used to screen and tag candidates
type Keywords struct {
	Topic    []string
	Exclude  []string
	Locality []string
}

// MatchesTopic reports whether text has a topic keyword and no exclusion keyword.
// text must already be lower-cased.
func (k Keywords) MatchesTopic(text string) bool {
	return containsAny(text, k.Topic) && !containsAny(text, k.Exclude)
}

// Classify tags text LOCAL when it names a local place, NATIONAL otherwise
func (k Keywords) Classify(text string) models.NewsCategory {
	if containsAny(text, k.Locality) {
		return models.NewsCategoryLocal
	}
	return models.NewsCategoryNational
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
