package content

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }

func TestReadWithHash(t *testing.T) {
	data := []byte("hello bundle")
	got, hash, err := readWithHash(bytes.NewReader(data), 1024)
	if err != nil {
		t.Fatalf("readWithHash: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("data = %q", got)
	}
	if hash != sha256hex(data) {
		t.Fatalf("hash = %s, want %s", hash, sha256hex(data))
	}
}

func TestReadWithHash_Limits(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		max     int64
		wantErr bool
	}{
		{"empty", 0, 10, false},
		{"exactly at limit", 10, 10, false},
		{"one over", 11, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := readWithHash(bytes.NewReader(make([]byte, tt.size)), tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadWithHash_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	if _, _, err := readWithHash(&errReader{err: boom}, 10); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestExtractTarGzToMem_KeepsTopLevelArticles(t *testing.T) {
	archive := makeTarGz(t, map[string]string{
		"hello.md":         post("Hello"),
		"./second.mdx":     post("Second"),
		"third.markdown":   post("Third"),
		"notes.txt":        "ignored",
		"images/logo.png":  "png",
		"drafts/nested.md": post("Nested"),
	})

	fsys, err := extractTarGzToMem(archive)
	if err != nil {
		t.Fatalf("extractTarGzToMem: %v", err)
	}

	var names []string
	for n := range fsys {
		names = append(names, n)
	}
	if len(fsys) != 3 {
		t.Fatalf("files = %v, want hello.md second.mdx third.markdown", names)
	}
	for _, n := range []string{"hello.md", "second.mdx", "third.markdown"} {
		if _, ok := fsys[n]; !ok {
			t.Errorf("missing %s in %v", n, names)
		}
	}
	if string(fsys["hello.md"].Data) != post("Hello") {
		t.Errorf("content mismatch: %q", fsys["hello.md"].Data)
	}
	if fsys["hello.md"].Mode.Perm() != 0640 {
		t.Errorf("mode = %v", fsys["hello.md"].Mode)
	}
}

func TestExtractTarGzToMem_RejectsSpecialFiles(t *testing.T) {
	for name, typ := range map[string]byte{
		"symlink": tar.TypeSymlink,
		"link":    tar.TypeLink,
		"char":    tar.TypeChar,
		"block":   tar.TypeBlock,
		"fifo":    tar.TypeFifo,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := extractTarGzToMem(makeTarGzWithType(t, name+".md", typ))
			if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
				t.Fatalf("err = %v, want unsupported file type", err)
			}
		})
	}
}

func TestExtractTarGzToMem_RejectsBadPaths(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"../../../etc/passwd.md", "path traversal"},
		{"a/../b.md", "path traversal"},
		{"/etc/passwd.md", "absolute path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractTarGzToMem(makeTarGz(t, map[string]string{tt.name: "x"}))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestExtractTarGzToMem_InvalidGzip(t *testing.T) {
	if _, err := extractTarGzToMem([]byte("not gzip")); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractTarGzToMem_EmptyArchive(t *testing.T) {
	fsys, err := extractTarGzToMem(makeTarGz(t, nil))
	if err != nil {
		t.Fatalf("extractTarGzToMem: %v", err)
	}
	if len(fsys) != 0 {
		t.Fatalf("want empty fs, got %d files", len(fsys))
	}
}

func TestExtractTarGzToMem_OversizedFile(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	// header claims more than the per-file limit, no body needed to trip the check
	tw.WriteHeader(&tar.Header{Name: "big.md", Mode: 0640, Size: maxSingleFile + 1})
	tw.Flush()
	gw.Close()

	_, err := extractTarGzToMem(buf.Bytes())
	if err == nil || !strings.Contains(err.Error(), "exceeds max size") {
		t.Fatalf("err = %v, want exceeds max size", err)
	}
}

func TestCopyArticles(t *testing.T) {
	src := fstest.MapFS{
		"a.md":       {Data: []byte(post("A"))},
		"b.mdx":      {Data: []byte(post("B"))},
		"c.txt":      {Data: []byte("no")},
		".hidden.md": {Data: []byte(post("Hidden"))},
		"dir/d.md":   {Data: []byte(post("D"))},
	}
	got, err := copyArticles(src)
	if err != nil {
		t.Fatalf("copyArticles: %v", err)
	}
	if len(got) != 2 || got["a.md"] == nil || got["b.mdx"] == nil {
		t.Fatalf("got %v", got)
	}
}

func TestHashFS(t *testing.T) {
	a := fstest.MapFS{"a.md": {Data: []byte("A")}, "b.md": {Data: []byte("B")}}
	b := fstest.MapFS{"b.md": {Data: []byte("B")}, "a.md": {Data: []byte("A")}}
	c := fstest.MapFS{"a.md": {Data: []byte("A")}, "b.md": {Data: []byte("C")}}
	d := fstest.MapFS{"ab.md": {Data: []byte("")}, "b.md": {Data: []byte("B")}}

	ha, err := HashFS(a)
	if err != nil {
		t.Fatalf("HashFS: %v", err)
	}
	hb, _ := HashFS(b)
	hc, _ := HashFS(c)
	hd, _ := HashFS(d)

	if ha != hb {
		t.Error("same tree should hash the same")
	}
	if ha == hc {
		t.Error("changed content should change the hash")
	}
	if ha == hd {
		t.Error("moving bytes between names should change the hash")
	}
	if len(ha) != 64 {
		t.Errorf("hash length = %d", len(ha))
	}
}

func TestHashFS_WalkError(t *testing.T) {
	if _, err := HashFS(badFS{}); err == nil {
		t.Fatal("expected error")
	}
}

type badFS struct{}

func (badFS) Open(string) (fs.File, error) { return nil, fs.ErrPermission }
