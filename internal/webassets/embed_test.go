package webassets

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
)

func TestFallbackFS(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"maintenance.html", "maintenance"},
		{"404.html", "Blog article not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := fs.ReadFile(FallbackFS(), tt.name)
			if err != nil {
				t.Fatalf("read %s: %v", tt.name, err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Fatalf("%s does not mention %q", tt.name, tt.want)
			}
		})
	}
}

func TestStaticFS(t *testing.T) {
	for _, name := range []string{"ui.js", "favicon.svg", "robots.txt"} {
		info, err := fs.Stat(StaticFS(), name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestUIScriptMatchesComponentHooks(t *testing.T) {
	data, err := fs.ReadFile(StaticFS(), "ui.js")
	if err != nil {
		t.Fatal(err)
	}
	for _, hook := range []string{"data-ui-drawer-open", "data-ui-drawer", "data-ui-carousel-prev", "data-ui-carousel-next", "data-ui-carousel-track"} {
		if !strings.Contains(string(data), hook) {
			t.Errorf("ui.js does not handle %s", hook)
		}
	}
}

func TestSeedFS_AllArticlesLoad(t *testing.T) {
	fsys, ok := SeedFS()
	if !ok {
		t.Fatal("seed has no articles")
	}
	lib := article.NewLibrary(fsys)
	list, err := lib.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("seed articles = %d, want 2", len(list))
	}
	for _, s := range list {
		if s.Metadata.Title == "" || s.Metadata.Created.IsZero() {
			t.Errorf("%s: incomplete front matter %+v", s.Slug, s.Metadata)
		}
		a, err := lib.Resolve(context.Background(), s.Slug)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", s.Slug, err)
		}
		if _, err := a.Render(context.Background()); err != nil {
			t.Errorf("Render(%s): %v", s.Slug, err)
		}
	}
}
