package service

import (
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

// contentPolicy keeps basic formatting markup and drops everything else
// (scripts, styles, event handlers, iframes) from submitted bodies
var contentPolicy = newContentPolicy()

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("dir").Matching(bluemonday.Direction).Globally()
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoFollowOnLinks(true)
	return p
}

func sanitizeContent(body string) string {
	return contentPolicy.Sanitize(body)
}

// sanitizePatch rewrites the content field of a patch in place
func sanitizePatch(patch *domain.SubmissionPatch) {
	if patch == nil || patch.Content == nil {
		return
	}
	clean := sanitizeContent(*patch.Content)
	patch.Content = &clean
}
