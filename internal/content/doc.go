// Package content manages the lifecycle of the article snapshot.
//
// A snapshot is an immutable in-memory filesystem holding one markdown file
// per article, plus metadata about where it came from. Snapshots come from
// three places: the seed articles embedded in the binary, a directory on
// local disk, or a tar.gz bundle in S3 whose hash is published in SSM.
//
// The core components are:
//   - [Manager]: stores the active snapshot using atomic.Pointer for lock-free reads
//   - [Loader]: downloads and verifies bundles from S3/SSM
//   - [Watcher]: polls SSM for hash changes and hot-swaps bundles into the Manager
//   - [DirWatcher]: re-reads the content directory on fsnotify events
//
// Every new snapshot passes [ValidateSnapshot] before it replaces the active one.
package content
