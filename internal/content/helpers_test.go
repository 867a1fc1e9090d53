package content

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

const (
	testSSMParam = "/app/linnemanlabs-blog/content/release"
	testBucket   = "test-bucket"
	testS3Prefix = "content/bundles"
)

func sha256hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// post returns a markdown file with YAML front matter.
func post(title string, tags ...string) string {
	return fmt.Sprintf("---\ntitle: %s\ntags: %q\nauthor: Test\ncreated: 2024-01-02\n---\nBody of %s.\n",
		title, strings.Join(tags, ", "), title)
}

// makeTarGz builds a .tar.gz archive in memory, entries written in name order.
func makeTarGz(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, name := range names {
		content := entries[name]
		if err := tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0640,
			Size: int64(len(content)),
		}); err != nil {
			t.Fatalf("write tar header %q: %v", name, err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write tar content %q: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

// makeTarGzWithType builds a .tar.gz with a single entry of the given type flag.
func makeTarGzWithType(t *testing.T, name string, typeflag byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	hdr := &tar.Header{Name: name, Mode: 0640, Typeflag: typeflag}
	if typeflag == tar.TypeSymlink || typeflag == tar.TypeLink {
		hdr.Linkname = "target.md"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("write tar header: %v", err)
	}
	tw.Close()
	gw.Close()
	return buf.Bytes()
}

// fakeSSM serves a single parameter value or error.
type fakeSSM struct {
	mu    sync.Mutex
	value string
	err   error
	calls int
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if aws.ToString(in.Name) != testSSMParam {
		return nil, fmt.Errorf("unexpected parameter %q", aws.ToString(in.Name))
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: aws.String(f.value)}}, nil
}

func (f *fakeSSM) set(value string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value, f.err = value, err
}

// fakeS3 serves objects from a map keyed by object key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if aws.ToString(in.Bucket) != testBucket {
		return nil, fmt.Errorf("no such bucket %q", aws.ToString(in.Bucket))
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

// putBundle stores data under its hash key and returns the hash.
func (f *fakeS3) putBundle(data []byte) string {
	hash := sha256hex(data)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[testS3Prefix+"/"+hash+".tar.gz"] = data
	return hash
}

func newTestLoader(t *testing.T, s3c *fakeS3, ssmc *fakeSSM) *Loader {
	t.Helper()
	l, err := NewLoader(t.Context(), LoaderOptions{
		SSMParam:  testSSMParam,
		S3Bucket:  testBucket,
		S3Prefix:  testS3Prefix,
		SSMClient: ssmc,
		S3Client:  s3c,
	})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	return l
}

// recMetrics records watcher signals.
type recMetrics struct {
	mu       sync.Mutex
	polls    int
	swaps    int
	errors   map[string]int
	stale    bool
	articles int
}

func newRecMetrics() *recMetrics { return &recMetrics{errors: map[string]int{}} }

func (m *recMetrics) IncWatcherPolls(string) { m.mu.Lock(); m.polls++; m.mu.Unlock() }
func (m *recMetrics) IncWatcherSwaps(string) { m.mu.Lock(); m.swaps++; m.mu.Unlock() }
func (m *recMetrics) IncWatcherError(_, errType string) {
	m.mu.Lock()
	m.errors[errType]++
	m.mu.Unlock()
}
func (m *recMetrics) ObserveBundleLoadDuration(string, float64) {}
func (m *recMetrics) SetWatcherLastSuccess(string, float64) {}
func (m *recMetrics) SetWatcherStale(_ string, stale bool) { m.mu.Lock(); m.stale = stale; m.mu.Unlock() }
func (m *recMetrics) SetArticles(n int) { m.mu.Lock(); m.articles = n; m.mu.Unlock() }

func (m *recMetrics) snapshot() (polls, swaps, articles int, errs map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := map[string]int{}
	for k, v := range m.errors {
		cp[k] = v
	}
	return m.polls, m.swaps, m.articles, cp
}
