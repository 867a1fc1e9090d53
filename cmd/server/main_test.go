package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keithlinneman/linnemanlabs-blog/internal/cfg"
	"github.com/keithlinneman/linnemanlabs-blog/internal/content"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	v "github.com/keithlinneman/linnemanlabs-blog/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, v.AppName+" ") {
		t.Fatalf("output = %q", out)
	}
}

func TestVersionCommand_IgnoresBadConfig(t *testing.T) {
	if _, err := execute(t, "--http-port=0", "version"); err != nil {
		t.Fatalf("version should not validate config: %v", err)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	if _, err := execute(t, "build", "--content-source=ftp"); err == nil {
		t.Fatal("expected config error")
	}
}

func TestBuildCommand(t *testing.T) {
	src := t.TempDir()
	post := "---\ntitle: From Disk\ntags: [go]\n---\nHello from disk.\n"
	if err := os.WriteFile(filepath.Join(src, "from-disk.md"), []byte(post), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "site")
	archive := filepath.Join(t.TempDir(), "site.tar.gz")

	stdout, err := execute(t, "build",
		"--log-json=false",
		"--log-level=error",
		"--content-source=disk",
		"--content-dir="+src,
		"--out="+out,
		"--archive="+archive,
	)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "wrote ") || !strings.Contains(stdout, archive) {
		t.Fatalf("stdout = %q", stdout)
	}

	page, err := os.ReadFile(filepath.Join(out, "from-disk", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "From Disk") {
		t.Fatal("article page missing title")
	}
	// seed articles must not leak into a disk build
	if _, err := os.Stat(filepath.Join(out, "welcome")); !os.IsNotExist(err) {
		t.Fatalf("seed article rendered into disk build: %v", err)
	}
	if _, err := os.Stat(archive + ".sha256"); err != nil {
		t.Fatalf("digest file: %v", err)
	}
}

func TestBuildCommand_EnvConfig(t *testing.T) {
	out := t.TempDir()
	t.Setenv("LMBLOG_CONTENT_SOURCE", "seed")
	t.Setenv("LMBLOG_LOG_LEVEL", "error")

	if _, err := execute(t, "build", "--out="+out); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "welcome", "index.html")); err != nil {
		t.Fatalf("seed build missing welcome: %v", err)
	}
}

func TestLoadContent_DiskWithBrokenFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"good.md":   "---\ntitle: Good\n---\nFine.\n",
		"broken.md": "---\ntitle: [unterminated\n---\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	conf := cfg.App{ContentSource: cfg.SourceDisk, ContentDir: dir}

	rt, err := loadContent(context.Background(), log.Nop(), conf)
	if err != nil {
		t.Fatalf("loadContent: %v", err)
	}
	if src := rt.mgr.ContentSource(); src != string(content.SourceDisk) {
		t.Fatalf("source = %q, want disk (seed kept instead)", src)
	}
	lib, ok := rt.mgr.Library()
	if !ok {
		t.Fatal("no library")
	}
	list, err := lib.List(context.Background())
	if err == nil {
		t.Fatal("listing should report the broken file")
	}
	if len(list) != 1 || list[0].Slug != "good" {
		t.Fatalf("list = %+v, want only good", list)
	}
}

func TestBuildCommand_MissingDirFails(t *testing.T) {
	_, err := execute(t, "build",
		"--log-level=error",
		"--content-source=disk",
		"--content-dir="+filepath.Join(t.TempDir(), "nope"),
		"--out="+t.TempDir(),
	)
	if err == nil {
		t.Fatal("expected error for missing content dir")
	}
}
