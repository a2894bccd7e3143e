package markdown

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// boilerplateSelectors are removed before HTML is converted to markdown.
var boilerplateSelectors = "script, style, nav, footer, header, aside, form, iframe, noscript"

// htmlTagRegex matches literal HTML tags inside markdown text.
var htmlTagRegex = regexp.MustCompile(`</?[a-zA-Z][^>\n]*>`)

// HTMLToMarkdown converts readable article HTML into markdown. Boilerplate
// elements are stripped first so the markdown carries only article content.
func HTMLToMarkdown(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(boilerplateSelectors).Remove()

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize cleaned HTML: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return strings.TrimSpace(md), nil
}

// Options configures markdown to HTML conversion.
type Options struct {
	// EscapeHTMLTags backslash-escapes literal HTML tags in the markdown
	// source so they render as visible text instead of markup.
	EscapeHTMLTags bool
}

// ToHTML renders markdown as HTML.
func ToHTML(md string, opts Options) string {
	if md == "" {
		return ""
	}

	if opts.EscapeHTMLTags {
		md = htmlTagRegex.ReplaceAllStringFunc(md, func(tag string) string {
			return `\` + tag
		})
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags,
	})

	return string(markdown.ToHTML([]byte(md), mdParser, renderer))
}

// HTMLToText extracts plain text from HTML for speech synthesis.
func HTMLToText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(boilerplateSelectors).Remove()

	var b strings.Builder
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		b.WriteString(text)
		b.WriteString("\n")
	})

	text := strings.TrimSpace(b.String())
	if text == "" {
		// Fragment without block elements, fall back to the full text.
		text = strings.TrimSpace(doc.Text())
	}
	return text, nil
}
