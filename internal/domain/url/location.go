package url

import (
	"net/url"
	"strings"
)

// DefaultSearchTemplate is used when no search engine is configured.
const DefaultSearchTemplate = "https://duckduckgo.com/?q=%s"

// LocationInput is the result of examining text typed or pasted into the location bar.
type LocationInput struct {
	IsProbablyURL bool
	WithProtocol  string // input with a scheme added when missing
	Search        string // search URL for the raw input
}

// Target returns the URL to load for this input.
func (l LocationInput) Target() string {
	if l.IsProbablyURL {
		return l.WithProtocol
	}
	return l.Search
}

// ExamineLocationInput classifies input as a URL or a search query.
// searchTemplate must contain a single "%s" placeholder.
func ExamineLocationInput(input, searchTemplate string) LocationInput {
	input = strings.TrimSpace(input)
	if searchTemplate == "" {
		searchTemplate = DefaultSearchTemplate
	}
	return LocationInput{
		IsProbablyURL: LooksLikeURL(input),
		WithProtocol:  Normalize(input),
		Search:        strings.Replace(searchTemplate, "%s", url.QueryEscape(input), 1),
	}
}
