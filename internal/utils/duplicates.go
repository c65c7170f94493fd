package utils

// SuggestionFilter drops repeated words when suggestions from several
// sources are merged. Matching is exact: WX distinguishes case.
// It is not safe for concurrent use.
type SuggestionFilter struct {
	seenWords map[string]struct{}
}

// NewSuggestionFilter creates a filter that already excludes the input word
func NewSuggestionFilter(input string) *SuggestionFilter {
	return &SuggestionFilter{seenWords: map[string]struct{}{input: {}}}
}

// ShouldInclude returns true the first time a word is seen
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	if _, seen := f.seenWords[word]; seen {
		return false
	}
	f.seenWords[word] = struct{}{}
	return true
}
