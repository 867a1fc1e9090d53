package article

import (
	"context"
	"strings"
	"testing"
)

const sampleBody = `# Title

Some paragraph here.

## Section One

text

### Sub Part

| a | b |
|---|---|
| 1 | 2 |

## Section Two

~~gone~~
`

func TestRender(t *testing.T) {
	a := &Article{Slug: "s", Body: []byte(sampleBody)}
	r, err := a.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wants := []string{
		`<h2 id="section-one"><a href="#section-one" class="heading-anchor" tabindex="-1">#</a>Section` + "\u00a0" + `One</h2>`,
		`<h1 id="title">`,
		"Some paragraph\u00a0here.",
		"<table>",
		"<del>gone</del>",
		`<nav class="toc">`,
		`<a class="toc-link" href="#sub-part">Sub Part</a>`,
	}
	for _, w := range wants {
		if !strings.Contains(r.HTML, w) {
			t.Errorf("HTML missing %q\n%s", w, r.HTML)
		}
	}
	if !strings.HasSuffix(r.HTML, "</nav>") {
		t.Errorf("toc should close the document, got tail %q", r.HTML[len(r.HTML)-20:])
	}

	if len(r.TOC) != 3 {
		t.Fatalf("TOC = %+v, want 3 entries", r.TOC)
	}
	levels := []int{r.TOC[0].Level, r.TOC[1].Level, r.TOC[2].Level}
	if levels[0] != 2 || levels[1] != 3 || levels[2] != 2 {
		t.Errorf("levels = %v", levels)
	}
	if r.TOC[1].Text != "Sub Part" || r.TOC[1].ID != "sub-part" {
		t.Errorf("entry = %+v", r.TOC[1])
	}
	if r.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d", r.ReadingTime)
	}
}

func TestRender_NoHeadingsNoTOC(t *testing.T) {
	a := &Article{Body: []byte("just a paragraph of text")}
	r, err := a.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(r.HTML, "toc") {
		t.Fatalf("unexpected toc in %q", r.HTML)
	}
	if len(r.TOC) != 0 {
		t.Fatalf("TOC = %v", r.TOC)
	}
}

func TestRender_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &Article{Body: []byte("x")}
	if _, err := a.Render(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestRenderTOC(t *testing.T) {
	got := renderTOC([]TOCEntry{
		{Level: 2, ID: "a", Text: "A"},
		{Level: 3, ID: "b", Text: "B & C"},
		{Level: 2, ID: "c", Text: "C"},
	})
	want := `<nav class="toc"><ol class="toc-level toc-level-1">` +
		`<li class="toc-item toc-item-h2"><a class="toc-link" href="#a">A</a>` +
		`<ol class="toc-level toc-level-2"><li class="toc-item toc-item-h3"><a class="toc-link" href="#b">B &amp; C</a></li></ol></li>` +
		`<li class="toc-item toc-item-h2"><a class="toc-link" href="#c">C</a></li>` +
		`</ol></nav>`
	if got != want {
		t.Fatalf("renderTOC\n got %s\nwant %s", got, want)
	}
}

func TestRenderTOC_EndsNested(t *testing.T) {
	got := renderTOC([]TOCEntry{{Level: 2, ID: "a", Text: "A"}, {Level: 3, ID: "b", Text: "B"}})
	if !strings.HasSuffix(got, `</a></li></ol></li></ol></nav>`) {
		t.Fatalf("unbalanced toc: %s", got)
	}
}

func TestReadingTime(t *testing.T) {
	words := func(n int) string { return strings.Repeat("word ", n) }
	tests := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{450, 3},
		{1000, 5},
	}
	for _, tt := range tests {
		if got := readingTime(words(tt.words)); got != tt.want {
			t.Errorf("readingTime(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}
