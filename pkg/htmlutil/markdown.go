package htmlutil

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

type MarkdownOptions struct {
	// SupSymbol, if set, renders <sup>x</sup> as <SupSymbol>x.
	SupSymbol string
	// PlainLinks renders <a> as [text](href) with the href left untouched.
	PlainLinks bool
	// StarEmphasis renders <em> as *text*.
	StarEmphasis bool
	// NoEscape keeps markdown characters in text as is, math-heavy
	// statements need this so subscripts survive.
	NoEscape bool
}

// Converter turns html fragments into markdown.
type Converter struct {
	inner *md.Converter
}

func NewConverter(opts MarkdownOptions) Converter {
	mdOpts := &md.Options{}
	if opts.NoEscape {
		mdOpts.EscapeMode = "disabled"
	}
	converter := md.NewConverter("", true, mdOpts)

	if opts.SupSymbol != "" {
		symbol := opts.SupSymbol
		converter.AddRules(md.Rule{
			Filter: []string{"sup"},
			Replacement: func(content string, _ *goquery.Selection, _ *md.Options) *string {
				return md.String(symbol + content)
			},
		})
	}
	if opts.PlainLinks {
		converter.AddRules(md.Rule{
			Filter: []string{"a"},
			Replacement: func(content string, selec *goquery.Selection, _ *md.Options) *string {
				href, _ := selec.Attr("href")
				return md.String(fmt.Sprintf("[%s](%s)", content, href))
			},
		})
	}
	if opts.StarEmphasis {
		converter.AddRules(md.Rule{
			Filter: []string{"em"},
			Replacement: func(content string, _ *goquery.Selection, _ *md.Options) *string {
				return md.String(fmt.Sprintf("*%s*", content))
			},
		})
	}

	return Converter{inner: converter}
}

func (c Converter) ConvertString(fragment string) (string, error) {
	out, err := c.inner.ConvertString(fragment)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ConvertSelection converts the outer html of every node in the selection.
func (c Converter) ConvertSelection(sel *goquery.Selection) (string, error) {
	var fragment strings.Builder
	for i := range sel.Nodes {
		outer, err := goquery.OuterHtml(sel.Eq(i))
		if err != nil {
			return "", err
		}
		fragment.WriteString(outer)
	}
	return c.ConvertString(fragment.String())
}
