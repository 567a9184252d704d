package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteByte('\n')
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
		switch {
		case unicode.IsSpace(c):
			newStr.WriteRune(' ')
		case unicode.IsPrint(c):
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses runs of whitespace into a single space and trims the result.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// SelectionText is the text content of every node in the selection with
// line breaks kept.
func SelectionText(sel *goquery.Selection) string {
	var out strings.Builder
	for _, n := range sel.Nodes {
		out.WriteString(GetText(n))
	}
	return out.String()
}

// StripPrefix removes the first matching label prefix (ex. "time limit per
// test") from the trimmed text.
func StripPrefix(text string, prefixes ...string) string {
	text = strings.TrimSpace(text)
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return strings.TrimSpace(text[len(p):])
		}
	}
	return text
}

// Latexify rewrites codeforces' $$$ math delimiters into plain $.
func Latexify(s string) string {
	s = strings.ReplaceAll(s, "$$$", "$")
	return strings.ReplaceAll(s, "$$", "$")
}

// NodeNotFound is returned when a page lacks a node a scraper requires. It
// usually means the page layout changed, retrying will not help.
type NodeNotFound struct {
	Selector string
	Url      string
}

func (e *NodeNotFound) Error() string {
	if e.Url == "" {
		return fmt.Sprintf("node not found: %s", e.Selector)
	}
	return fmt.Sprintf("node not found: %s (in %s)", e.Selector, e.Url)
}

// Require finds the selector under sel, failing with *NodeNotFound when
// nothing matches.
func Require(sel *goquery.Selection, selector, url string) (*goquery.Selection, error) {
	found := sel.Find(selector)
	if found.Length() == 0 {
		return nil, &NodeNotFound{Selector: selector, Url: url}
	}
	return found.First(), nil
}
