package ebay

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/listinglens/backend/internal/domain"
)

// Title length bounds: shorter strings are UI fragments, longer ones are
// concatenated row text.
const (
	minTitleLength = 5
	maxTitleLength = 200
)

// titleClasses are the class names eBay has used for listing titles across
// page generations. Any element carrying one is treated as a title node.
var titleClasses = map[string]bool{
	"s-item__title":      true,
	"bsig__title__text":  true,
	"it-ttl":             true,
	"lvtitle":            true,
	"x-item-title-label": true,
}

// noisePhrases mark pseudo-titles injected into result pages: ads, carousel
// controls, and watch-list prompts in the English and German layouts.
var noisePhrases = []string{
	"Shop on eBay",
	"New Listing",
	"Sponsored",
	"Anzeige",
	"Zur vorherigen Folie",
	"Zur nächsten Folie",
	"Artikel zum Beobachten",
}

// ExtractListingPage parses a result page into its listing titles and the
// link to the following page. Titles are deduplicated in document order; the
// next-page link is resolved against the page URL and empty on the last page.
func ExtractListingPage(pageURL string, body io.Reader) (*domain.ListingPage, error) {
	root, err := html.Parse(body)
	if err != nil {
		return nil, err
	}

	page := &domain.ListingPage{}
	seen := make(map[string]bool)

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isTitleNode(n) {
				title := collapseSpace(nodeText(n))
				if keepTitle(title) && !seen[title] {
					seen[title] = true
					page.Titles = append(page.Titles, title)
				}
			}
			if page.NextPageURL == "" && isNextLink(n) {
				page.NextPageURL = resolveURL(pageURL, attr(n, "href"))
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(root)

	return page, nil
}

// isTitleNode reports whether the element renders a listing title in any of
// the page generations: a known title class, the data-testid markers of the
// current layout, or an anchor straight into an item page.
func isTitleNode(n *html.Node) bool {
	switch n.Data {
	case "h3", "div", "span", "a":
	default:
		return false
	}

	for _, class := range strings.Fields(attr(n, "class")) {
		if titleClasses[class] {
			return true
		}
	}

	testID := attr(n, "data-testid")
	if n.Data == "h3" && testID == "item-title" {
		return true
	}
	if n.Data == "a" && testID == "item-title-link" {
		return true
	}

	return n.Data == "a" && strings.Contains(attr(n, "href"), "/itm/")
}

// keepTitle filters out length outliers and page noise.
func keepTitle(title string) bool {
	if len(title) <= minTitleLength || len(title) >= maxTitleLength {
		return false
	}
	for _, phrase := range noisePhrases {
		if strings.Contains(title, phrase) {
			return false
		}
	}
	return true
}

// isNextLink matches the pagination "next" anchor across page generations.
func isNextLink(n *html.Node) bool {
	if n.Data != "a" || attr(n, "href") == "" {
		return false
	}
	if attr(n, "rel") == "next" {
		return true
	}
	for _, class := range strings.Fields(attr(n, "class")) {
		if strings.Contains(class, "pagination__next") {
			return true
		}
	}
	return false
}

// nodeText concatenates the text nodes beneath n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(nodeText(child))
	}
	return sb.String()
}

// collapseSpace trims and collapses whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// attr returns the value of the named attribute, or "" when absent.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// resolveURL makes href absolute against the page URL. Unparsable inputs
// fall back to the raw href.
func resolveURL(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
