package prerender

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// WriteArchive packs dir into a gzip tarball at dst and returns its hex
// SHA-256, also written to dst+".sha256" in sha256sum format. Entries are
// sorted and carry a fixed mtime so the same tree always hashes the same.
func WriteArchive(dir, dst string) (string, error) {
	var names []string
	root := os.DirFS(dir)
	err := fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return "", xerrors.Wrapf(err, "walk %s", dir)
	}
	sort.Strings(names)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", xerrors.Wrapf(err, "create dir for %s", dst)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", xerrors.Wrapf(err, "create %s", dst)
	}
	defer f.Close()

	h := sha256.New()
	gz := gzip.NewWriter(io.MultiWriter(f, h))
	tw := tar.NewWriter(gz)
	epoch := time.Unix(0, 0).UTC()

	for _, n := range names {
		data, err := fs.ReadFile(root, n)
		if err != nil {
			return "", xerrors.Wrapf(err, "read %s", n)
		}
		hdr := &tar.Header{
			Name:     n,
			Mode:     0o644,
			Size:     int64(len(data)),
			ModTime:  epoch,
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return "", xerrors.Wrapf(err, "tar header %s", n)
		}
		if _, err := tw.Write(data); err != nil {
			return "", xerrors.Wrapf(err, "tar write %s", n)
		}
	}
	if err := tw.Close(); err != nil {
		return "", xerrors.Wrap(err, "close tar")
	}
	if err := gz.Close(); err != nil {
		return "", xerrors.Wrap(err, "close gzip")
	}
	if err := f.Close(); err != nil {
		return "", xerrors.Wrapf(err, "close %s", dst)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(dst))
	if err := os.WriteFile(dst+".sha256", []byte(line), 0o644); err != nil {
		return "", xerrors.Wrapf(err, "write %s.sha256", dst)
	}
	return sum, nil
}
