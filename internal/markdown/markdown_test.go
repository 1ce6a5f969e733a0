package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("**bold** and `code`")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("missing strong: %s", out)
	}
	if !strings.Contains(out, "<code>code</code>") {
		t.Errorf("missing code: %s", out)
	}
}

func TestRawHTMLIsNotPassedThrough(t *testing.T) {
	out, err := ToHTML("<script>alert(1)</script>\n\nhi <b onclick=x>there</b>")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b onclick") {
		t.Errorf("raw HTML leaked: %s", out)
	}
}

func TestHardWraps(t *testing.T) {
	out, _ := ToHTML("line one\nline two")
	if !strings.Contains(out, "<br") {
		t.Errorf("expected line break, got %s", out)
	}
}

func TestRender(t *testing.T) {
	got := string(Render("# Title"))
	if !strings.Contains(got, "<h1>Title</h1>") {
		t.Errorf("Render: %s", got)
	}
}
