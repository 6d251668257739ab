package driver

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits page input to 10MB to prevent memory exhaustion.
const MaxHTMLSize = 10 * 1024 * 1024

// textPolicy strips all markup from anchor text before it is matched
// against the query.
var textPolicy = bluemonday.StrictPolicy()

// ResolveHref converts a raw href to an absolute URL using the page's
// current address as base. The join runs in this process; the loaded page is
// untrusted and is never asked to compute it. Only http and https results
// qualify; javascript:, data:, file: and every other scheme return "".
func ResolveHref(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	abs := base.ResolveReference(ref)
	if scheme := strings.ToLower(abs.Scheme); scheme != "http" && scheme != "https" {
		return ""
	}
	return abs.String()
}

// CleanText sanitizes and collapses anchor text.
func CleanText(s string) string {
	return strings.Join(strings.Fields(textPolicy.Sanitize(s)), " ")
}

// detectCharset detects the charset of raw page bytes, defaulting to utf-8.
func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// parseHTMLNode parses raw page bytes into an XPath-queryable node with
// charset conversion.
func parseHTMLNode(data []byte) (*html.Node, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty page content")
	}
	if len(data) > MaxHTMLSize {
		data = data[:MaxHTMLSize]
	}

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), detectCharset(data))
	if err != nil {
		return htmlquery.Parse(bytes.NewReader(data))
	}
	return htmlquery.Parse(utf8Reader)
}

// parseDocument parses raw page bytes into a goquery document with charset
// conversion.
func parseDocument(data []byte) (*goquery.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty page content")
	}
	if len(data) > MaxHTMLSize {
		data = data[:MaxHTMLSize]
	}

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), detectCharset(data))
	if err != nil {
		return goquery.NewDocumentFromReader(bytes.NewReader(data))
	}
	return goquery.NewDocumentFromReader(utf8Reader)
}

// anchorsFromHTML extracts up to limit anchors from raw page bytes using an
// XPath scan. Used by the Chrome driver, which hands over the rendered DOM
// as serialized HTML.
func anchorsFromHTML(data []byte, limit int) ([]Anchor, error) {
	doc, err := parseHTMLNode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	nodes, err := htmlquery.QueryAll(doc, "//a[@href]")
	if err != nil {
		return nil, fmt.Errorf("anchor query failed: %w", err)
	}

	anchors := make([]Anchor, 0, min(len(nodes), limit))
	for _, node := range nodes {
		if len(anchors) >= limit {
			break
		}
		anchors = append(anchors, Anchor{
			Href:      htmlquery.SelectAttr(node, "href"),
			Text:      CleanText(htmlquery.InnerText(node)),
			AriaLabel: CleanText(htmlquery.SelectAttr(node, "aria-label")),
		})
	}
	return anchors, nil
}

// anchorsFromDocument extracts up to limit anchors from a parsed document.
// Used by the static driver.
func anchorsFromDocument(doc *goquery.Document, limit int) []Anchor {
	anchors := make([]Anchor, 0, limit)
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(anchors) >= limit {
			return false
		}
		href, _ := s.Attr("href")
		anchors = append(anchors, Anchor{
			Href:      href,
			Text:      CleanText(s.Text()),
			AriaLabel: CleanText(s.AttrOr("aria-label", "")),
		})
		return true
	})
	return anchors
}
