package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdownBasics(t *testing.T) {
	out := RenderMarkdown("# Title\n\nSome **bold** text.")
	if !strings.Contains(out, "<h1") {
		t.Errorf("expected heading in output, got %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected bold text in output, got %q", out)
	}
}

func TestRenderMarkdownGFMTable(t *testing.T) {
	out := RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected table in output, got %q", out)
	}
}

func TestRenderMarkdownStripsScript(t *testing.T) {
	out := RenderMarkdown("hello\n\n<script>alert(1)</script>")
	if strings.Contains(out, "<script>") {
		t.Errorf("script tag survived sanitization: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("legitimate content was dropped: %q", out)
	}
}

func TestSanitizeRemovesEventHandlers(t *testing.T) {
	out := Sanitize(`<a href="https://example.com" onclick="steal()">link</a>`)
	if strings.Contains(out, "onclick") {
		t.Errorf("onclick survived sanitization: %q", out)
	}
	if !strings.Contains(out, "link") {
		t.Errorf("link text was dropped: %q", out)
	}
}

func TestSanitizeKeepsImages(t *testing.T) {
	out := Sanitize(`<img src="https://example.com/cat.png" alt="cat"/>`)
	if !strings.Contains(out, "<img") {
		t.Errorf("img tag was dropped: %q", out)
	}
}
