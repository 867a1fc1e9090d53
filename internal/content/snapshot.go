package content

import (
	"io/fs"
	"time"

	"github.com/keithlinneman/linnemanlabs-blog/internal/article"
)

type Snapshot struct {
	FS       fs.FS
	Meta     Meta
	LoadedAt time.Time

	library *article.Library
}

// Library returns the article library over the snapshot FS.
func (s *Snapshot) Library() *article.Library {
	if s.library != nil {
		return s.library
	}
	return article.NewLibrary(s.FS)
}

// newSnapshot hashes fsys and counts its articles.
func newSnapshot(fsys fs.FS, src Source) (*Snapshot, error) {
	hash, err := HashFS(fsys)
	if err != nil {
		return nil, err
	}
	lib := article.NewLibrary(fsys)
	files, err := lib.Files()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Snapshot{
		FS: fsys,
		Meta: Meta{
			Version:    truncHash(hash),
			SHA256:     hash,
			Articles:   len(files),
			VerifiedAt: now,
			Source:     src,
		},
		LoadedAt: now,
		library:  lib,
	}, nil
}
