package content

import (
	"context"

	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// ValidationOptions controls which checks ValidateSnapshot performs.
type ValidationOptions struct {
	// MinArticles rejects snapshots with fewer articles. 0 disables the check.
	MinArticles int

	// RequireLoadable rejects snapshots where any article fails to parse.
	RequireLoadable bool
}

// DefaultValidationOptions returns the production defaults: at least one
// article and every article loadable.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		MinArticles:     1,
		RequireLoadable: true,
	}
}

// DiskValidationOptions only requires an article file to exist. A local
// directory is the author's working copy: one broken file must not hide
// the rest, it shows up as an incomplete listing instead.
func DiskValidationOptions() ValidationOptions {
	return ValidationOptions{MinArticles: 1}
}

// ValidateSnapshot performs sanity checks on a snapshot before it is
// swapped into the active Manager, so a broken push keeps the current
// content live.
func ValidateSnapshot(ctx context.Context, snap *Snapshot, opts ValidationOptions) error {
	if snap == nil {
		return xerrors.New("validate: snapshot is nil")
	}
	if snap.FS == nil {
		return xerrors.New("validate: snapshot has nil filesystem")
	}

	lib := snap.Library()
	files, err := lib.Files()
	if err != nil {
		return xerrors.Wrap(err, "validate: listing articles")
	}
	if opts.MinArticles > 0 && len(files) < opts.MinArticles {
		return xerrors.Newf("validate: snapshot has %d articles, minimum is %d", len(files), opts.MinArticles)
	}

	if opts.RequireLoadable {
		// the watcher logs the rejection itself
		if _, err := lib.List(log.WithContext(ctx, log.Nop())); err != nil {
			return xerrors.Wrap(err, "validate: unloadable articles")
		}
	}
	return nil
}

