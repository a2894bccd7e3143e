package markdown

import (
	"strings"
	"testing"
)

func TestHTMLToMarkdown(t *testing.T) {
	rawHTML := `<html><head><title>ignored</title></head><body>
		<script>alert("nope")</script>
		<nav>site nav</nav>
		<article>
			<h1>A Heading</h1>
			<p>Some <strong>bold</strong> text.</p>
		</article>
	</body></html>`

	md, err := HTMLToMarkdown(rawHTML)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(md, "A Heading") {
		t.Errorf("Expected heading in markdown, got: %q", md)
	}
	if !strings.Contains(md, "**bold**") {
		t.Errorf("Expected bold markdown, got: %q", md)
	}
	if strings.Contains(md, "alert") || strings.Contains(md, "site nav") {
		t.Errorf("Expected boilerplate to be stripped, got: %q", md)
	}
}

func TestHTMLToMarkdownEmpty(t *testing.T) {
	md, err := HTMLToMarkdown("   ")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if md != "" {
		t.Errorf("Expected empty markdown, got: %q", md)
	}
}

func TestToHTML(t *testing.T) {
	out := ToHTML("# Title\n\nA *styled* line.", Options{})

	if !strings.Contains(out, "<h1") {
		t.Errorf("Expected h1 element, got: %q", out)
	}
	if !strings.Contains(out, "<em>styled</em>") {
		t.Errorf("Expected emphasis element, got: %q", out)
	}
}

func TestToHTMLEscapesLiteralTags(t *testing.T) {
	out := ToHTML("Summary mentions <video> elements.", Options{EscapeHTMLTags: true})

	if strings.Contains(out, "<video>") {
		t.Errorf("Expected literal tag to be escaped, got: %q", out)
	}
	if !strings.Contains(out, "&lt;video&gt;") {
		t.Errorf("Expected escaped tag text in output, got: %q", out)
	}
}

func TestToHTMLWithoutEscapingPassesTagsThrough(t *testing.T) {
	out := ToHTML("Raw <b>html</b> here.", Options{})

	if !strings.Contains(out, "<b>html</b>") {
		t.Errorf("Expected raw HTML passthrough when escaping disabled, got: %q", out)
	}
}

func TestHTMLToText(t *testing.T) {
	rawHTML := `<html><body>
		<style>.x{}</style>
		<h2>Heading</h2>
		<p>First paragraph.</p>
		<p>Second paragraph.</p>
	</body></html>`

	text, err := HTMLToText(rawHTML)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(text, "First paragraph.") || !strings.Contains(text, "Second paragraph.") {
		t.Errorf("Expected paragraphs in text, got: %q", text)
	}
	if strings.Contains(text, ".x{}") {
		t.Errorf("Expected styles to be stripped, got: %q", text)
	}
}

func TestHTMLToTextFragmentFallback(t *testing.T) {
	text, err := HTMLToText("just a bare fragment")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "just a bare fragment" {
		t.Errorf("Expected fallback to full text, got: %q", text)
	}
}
