package content

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"testing/fstest"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
	"github.com/keithlinneman/linnemanlabs-blog/internal/pathutil"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

const (
	// maxBundleSize is the maximum size of a compressed content bundle from s3
	maxBundleSize int64 = 50 * 1024 * 1024 // 50MB

	// maxSingleFile is the maximum size of a single article file
	maxSingleFile int64 = 10 * 1024 * 1024 // 10MB

	// maxTotalExtract is the maximum total size of extracted content
	maxTotalExtract int64 = 100 * 1024 * 1024 // 100MB
)

// readWithHash reads all bytes from r up to maxSize, computing SHA256
// as it reads. Returns the data, hex-encoded hash, and any error.
func readWithHash(r io.Reader, maxSize int64) ([]byte, string, error) {
	h := sha256.New()
	lr := io.LimitReader(r, maxSize+1)
	tr := io.TeeReader(lr, h)

	data, err := io.ReadAll(tr)
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxSize {
		return nil, "", fmt.Errorf("content exceeds max size (%d bytes, limit %d)", len(data), maxSize)
	}

	return data, hex.EncodeToString(h.Sum(nil)), nil
}

// extractTarGzToMem extracts the article files of a .tar.gz bundle into an
// in-memory filesystem. Only top-level files with an article extension are
// kept; anything else in the archive is skipped.
func extractTarGzToMem(data []byte) (fstest.MapFS, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer gr.Close()

	mfs := make(fstest.MapFS)
	tr := tar.NewReader(gr)

	var totalBytes int64

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar header: %w", err)
		}

		if path.IsAbs(hdr.Name) {
			return nil, fmt.Errorf("absolute path in archive: %s", hdr.Name)
		}
		if pathutil.HasDotSegments(strings.TrimPrefix(hdr.Name, "./")) {
			return nil, fmt.Errorf("path traversal in archive: %s", hdr.Name)
		}
		cleanName := path.Clean(hdr.Name)
		if cleanName == "." || cleanName == "" {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			continue

		case tar.TypeReg:
			if _, ok := article.SlugOf(cleanName); !ok || strings.Contains(cleanName, "/") {
				continue
			}
			if hdr.Size > maxSingleFile {
				return nil, fmt.Errorf("file %s exceeds max size (%d > %d)",
					cleanName, hdr.Size, maxSingleFile)
			}

			lr := io.LimitReader(tr, maxSingleFile+1)
			content, err := io.ReadAll(lr)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", cleanName, err)
			}
			if int64(len(content)) > maxSingleFile {
				return nil, fmt.Errorf("file %s exceeds max size after read", cleanName)
			}

			totalBytes += int64(len(content))
			if totalBytes > maxTotalExtract {
				return nil, fmt.Errorf("total extracted size exceeds limit (%d bytes, max %d)",
					totalBytes, maxTotalExtract)
			}

			mfs[cleanName] = &fstest.MapFile{
				Data:    content,
				Mode:    hdr.FileInfo().Mode().Perm(),
				ModTime: hdr.ModTime,
			}

		default:
			return nil, fmt.Errorf("unsupported file type in archive: %s (type=%d)",
				cleanName, hdr.Typeflag)
		}
	}

	return mfs, nil
}

// copyArticles reads the top-level article files of src into memory,
// applying the same size limits as bundle extraction.
func copyArticles(src fs.FS) (fstest.MapFS, error) {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return nil, xerrors.Wrap(err, "read content dir")
	}

	mfs := make(fstest.MapFS)
	var totalBytes int64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, ok := article.SlugOf(e.Name()); !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, xerrors.Wrapf(err, "stat %s", e.Name())
		}
		if info.Size() > maxSingleFile {
			return nil, xerrors.Newf("file %s exceeds max size (%d > %d)", e.Name(), info.Size(), maxSingleFile)
		}
		data, err := fs.ReadFile(src, e.Name())
		if err != nil {
			return nil, xerrors.Wrapf(err, "read %s", e.Name())
		}
		totalBytes += int64(len(data))
		if totalBytes > maxTotalExtract {
			return nil, xerrors.Newf("content dir exceeds limit (%d bytes, max %d)", totalBytes, maxTotalExtract)
		}
		mfs[e.Name()] = &fstest.MapFile{Data: data, Mode: info.Mode().Perm(), ModTime: info.ModTime()}
	}
	return mfs, nil
}

// HashFS returns a SHA-256 over the names and contents of every regular
// file in fsys, walked in lexical order. Two trees with the same files hash
// the same regardless of modification times.
func HashFS(fsys fs.FS) (string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return "", xerrors.Wrap(err, "walk content")
	}
	sort.Strings(names)

	h := sha256.New()
	for _, n := range names {
		data, err := fs.ReadFile(fsys, n)
		if err != nil {
			return "", xerrors.Wrapf(err, "read %s", n)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", n, len(data))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
