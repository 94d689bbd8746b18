// Package htmlutil contains helpers for pulling values out of scraped pages.
//
// Every extraction helper returns a typed default ("", false, nil) when the
// element or match it looks for is absent, scrapers never fail on a single
// missing field.
package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text of every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText drops non-printable characters, collapses whitespace runs into
// a single space and trims the result.
func NormalizeText(s string) string {
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DirectTexts returns the text nodes that are direct children of node, in
// document order and untrimmed.
func DirectTexts(node *html.Node) []string {
	if node == nil {
		return nil
	}
	var texts []string
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			texts = append(texts, child.Data)
		}
	}
	return texts
}

// NextTextSibling returns the first text node following node on the same level,
// skipping over elements. The text is trimmed and may be empty.
func NextTextSibling(node *html.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	for next := node.NextSibling; next != nil; next = next.NextSibling {
		if next.Type == html.TextNode {
			return strings.TrimSpace(next.Data), true
		}
	}
	return "", false
}

// NextNonEmptyTextSibling is NextTextSibling but skips whitespace-only text.
func NextNonEmptyTextSibling(node *html.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	for next := node.NextSibling; next != nil; next = next.NextSibling {
		if next.Type != html.TextNode {
			continue
		}
		if text := strings.TrimSpace(next.Data); text != "" {
			return text, true
		}
	}
	return "", false
}

// TextOf returns the trimmed text of the first node of sel, or "".
func TextOf(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(GetText(sel.Nodes[0]))
}

// InnerHtml returns the serialized children of the first node of sel, or "".
func InnerHtml(sel *goquery.Selection) string {
	contents, err := sel.First().Html()
	if err != nil {
		return ""
	}
	return contents
}

// Submatch returns the given group of the first match of re in text, or "" and
// false if there is no match.
func Submatch(re *regexp.Regexp, text string, group int) (string, bool) {
	groups := re.FindStringSubmatch(text)
	if len(groups) <= group {
		return "", false
	}
	return groups[group], true
}

// Absolutize resolves ref against base. References that already carry a
// scheme are returned as-is and an empty ref stays empty.
func Absolutize(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return strings.TrimRight(base.String(), "/") + "/" + strings.TrimLeft(ref, "/")
	}
	return base.ResolveReference(parsed).String()
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors returns the normalized text and raw href of every node in sel.
// Nodes without an href are skipped.
func GetAnchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	for _, n := range sel.Nodes {
		href := ""
		hasHref := false
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				hasHref = true
				break
			}
		}
		if !hasHref {
			continue
		}
		anchors = append(anchors, Anchor{
			Name: NormalizeText(GetText(n)),
			Href: href,
		})
	}
	return anchors
}
