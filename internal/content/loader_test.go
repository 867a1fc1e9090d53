package content

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewLoader_RequiredOptions(t *testing.T) {
	tests := []struct {
		name string
		opts LoaderOptions
	}{
		{"missing ssm param", LoaderOptions{S3Bucket: testBucket}},
		{"missing bucket", LoaderOptions{SSMParam: testSSMParam}},
		{"both missing", LoaderOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader(context.Background(), tt.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoader_s3Key(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"content/bundles", "content/bundles/abc.tar.gz"},
		{"/content/bundles/", "content/bundles/abc.tar.gz"},
		{"", "abc.tar.gz"},
	}
	for _, tt := range tests {
		l := &Loader{opts: LoaderOptions{S3Prefix: tt.prefix}}
		if got := l.s3Key("abc"); got != tt.want {
			t.Errorf("s3Key(prefix=%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestFetchCurrentBundleHash(t *testing.T) {
	valid := sha256hex([]byte("x"))
	tests := []struct {
		name    string
		value   string
		err     error
		want    string
		wantErr bool
	}{
		{"valid", valid, nil, valid, false},
		{"trimmed and lowered", "  " + strings.ToUpper(valid) + "\n", nil, valid, false},
		{"empty", "   ", nil, "", true},
		{"not hex", strings.Repeat("z", 64), nil, "", true},
		{"short", "abc123", nil, "", true},
		{"ssm error", "", errors.New("throttled"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoader(t, newFakeS3(), &fakeSSM{value: tt.value, err: tt.err})
			got, err := l.FetchCurrentBundleHash(t.Context())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("hash = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoader_LoadHash(t *testing.T) {
	s3c := newFakeS3()
	hash := s3c.putBundle(makeTarGz(t, map[string]string{
		"hello.md":  post("Hello", "go"),
		"second.md": post("Second"),
	}))
	l := newTestLoader(t, s3c, &fakeSSM{value: hash})

	snap, err := l.Load(t.Context())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Meta.SHA256 != hash || snap.Meta.Version != hash[:12] {
		t.Fatalf("meta = %+v", snap.Meta)
	}
	if snap.Meta.Source != SourceS3 || snap.Meta.Articles != 2 {
		t.Fatalf("meta = %+v", snap.Meta)
	}

	a, err := snap.Library().Resolve(t.Context(), "hello")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a.Metadata.Title != "Hello" {
		t.Fatalf("title = %q", a.Metadata.Title)
	}
}

func TestLoader_LoadHash_ChecksumMismatch(t *testing.T) {
	s3c := newFakeS3()
	good := makeTarGz(t, map[string]string{"a.md": post("A")})
	hash := sha256hex(good)
	s3c.objects[testS3Prefix+"/"+hash+".tar.gz"] = makeTarGz(t, map[string]string{"a.md": post("Tampered")})

	l := newTestLoader(t, s3c, &fakeSSM{value: hash})
	_, err := l.LoadHash(t.Context(), hash)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("err = %v, want checksum mismatch", err)
	}
}

func TestLoader_LoadHash_MissingObject(t *testing.T) {
	l := newTestLoader(t, newFakeS3(), &fakeSSM{})
	if _, err := l.LoadHash(t.Context(), sha256hex([]byte("nope"))); err == nil {
		t.Fatal("expected error for missing object")
	}
}

func TestLoader_LoadIntoManager(t *testing.T) {
	s3c := newFakeS3()
	ssmc := &fakeSSM{}
	l := newTestLoader(t, s3c, ssmc)
	mgr := NewManager()

	empty := s3c.putBundle(makeTarGz(t, map[string]string{"notes.txt": "x"}))
	ssmc.set(empty, nil)
	if err := l.LoadIntoManager(t.Context(), mgr, DefaultValidationOptions()); err == nil {
		t.Fatal("bundle without articles should fail validation")
	}
	if _, ok := mgr.Get(); ok {
		t.Fatal("manager should stay empty after a rejected bundle")
	}

	good := s3c.putBundle(makeTarGz(t, map[string]string{"a.md": post("A")}))
	ssmc.set(good, nil)
	if err := l.LoadIntoManager(t.Context(), mgr, DefaultValidationOptions()); err != nil {
		t.Fatalf("LoadIntoManager: %v", err)
	}
	if mgr.ContentHash() != good {
		t.Fatalf("ContentHash = %q, want %q", mgr.ContentHash(), good)
	}
}
