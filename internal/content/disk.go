package content

import (
	"io/fs"
	"os"

	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// LoadDir snapshots the article files directly under dir. The files are
// copied into memory so later edits on disk never change a live snapshot.
func LoadDir(dir string) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, xerrors.Wrapf(err, "content dir %s", dir)
	}
	if !info.IsDir() {
		return nil, xerrors.Newf("content dir %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), SourceDisk)
}

// LoadFS snapshots the article files at the root of fsys.
func LoadFS(fsys fs.FS, src Source) (*Snapshot, error) {
	mfs, err := copyArticles(fsys)
	if err != nil {
		return nil, err
	}
	return newSnapshot(mfs, src)
}
