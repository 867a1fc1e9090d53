package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/keithlinneman/linnemanlabs-blog/internal/cryptoutil"
	"github.com/keithlinneman/linnemanlabs-blog/internal/log"
	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

// SSMAPI is the subset of the SSM client the loader uses.
type SSMAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// S3API is the subset of the S3 client the loader uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type LoaderOptions struct {
	Logger log.Logger

	// SSM parameter containing the bundle SHA256 hash
	SSMParam string

	// S3 location for bundles: s3://{bucket}/{prefix}/{hash}.tar.gz
	S3Bucket string
	S3Prefix string

	// AWS config (uses default if nil)
	AWSConfig *aws.Config

	// clients override the ones built from AWSConfig, used by tests
	SSMClient SSMAPI
	S3Client  S3API
}

type Loader struct {
	opts      LoaderOptions
	ssmClient SSMAPI
	s3Client  S3API
	logger    log.Logger
}

// NewLoader creates a new content Loader with the given options
func NewLoader(ctx context.Context, opts LoaderOptions) (*Loader, error) {
	if opts.SSMParam == "" {
		return nil, xerrors.New("SSMParam is required")
	}
	if opts.S3Bucket == "" {
		return nil, xerrors.New("S3Bucket is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}

	l := &Loader{
		opts:      opts,
		ssmClient: opts.SSMClient,
		s3Client:  opts.S3Client,
		logger:    opts.Logger,
	}
	if l.ssmClient != nil && l.s3Client != nil {
		return l, nil
	}

	var awsCfg aws.Config
	var err error
	if opts.AWSConfig != nil {
		awsCfg = *opts.AWSConfig
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, xerrors.Wrap(err, "load AWS config")
		}
	}
	if l.ssmClient == nil {
		l.ssmClient = ssm.NewFromConfig(awsCfg)
	}
	if l.s3Client == nil {
		l.s3Client = s3.NewFromConfig(awsCfg)
	}
	return l, nil
}

// FetchCurrentBundleHash gets the current bundle hash from SSM
func (l *Loader) FetchCurrentBundleHash(ctx context.Context) (string, error) {
	out, err := l.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(l.opts.SSMParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", xerrors.Wrapf(err, "get SSM parameter %s", l.opts.SSMParam)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", xerrors.Newf("SSM parameter %s has no value", l.opts.SSMParam)
	}

	hash := strings.ToLower(strings.TrimSpace(*out.Parameter.Value))
	if hash == "" {
		return "", xerrors.Newf("SSM parameter %s is empty", l.opts.SSMParam)
	}
	if !isHexSHA256(hash) {
		return "", xerrors.Newf("SSM parameter %s is not a sha256 hex digest", l.opts.SSMParam)
	}

	return hash, nil
}

func isHexSHA256(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// s3Key returns the S3 object key for a given hash
func (l *Loader) s3Key(hash string) string {
	if p := strings.Trim(l.opts.S3Prefix, "/"); p != "" {
		return fmt.Sprintf("%s/%s.tar.gz", p, hash)
	}
	return fmt.Sprintf("%s.tar.gz", hash)
}

// Download fetches a bundle from S3 into memory and verifies its hash
func (l *Loader) Download(ctx context.Context, hash string) ([]byte, error) {
	key := l.s3Key(hash)

	l.logger.Info(ctx, "downloading content bundle",
		"bucket", l.opts.S3Bucket,
		"key", key,
		"expected_hash", hash,
	)

	out, err := l.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.opts.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, xerrors.Wrapf(err, "get S3 object s3://%s/%s", l.opts.S3Bucket, key)
	}
	defer out.Body.Close()

	data, actualHash, err := readWithHash(out.Body, maxBundleSize)
	if err != nil {
		return nil, xerrors.Wrap(err, "download bundle")
	}

	l.logger.Info(ctx, "downloaded content bundle",
		"bytes", len(data),
		"actual_hash", actualHash,
	)

	if !cryptoutil.HashEqual(actualHash, hash) {
		return nil, xerrors.Newf("checksum mismatch: expected %s, got %s", hash, actualHash)
	}
	return data, nil
}

// Load fetches the current release and returns a Snapshot
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	hash, err := l.FetchCurrentBundleHash(ctx)
	if err != nil {
		return nil, err
	}
	return l.LoadHash(ctx, hash)
}

// LoadHash fetches a specific bundle by hash and returns a Snapshot. The
// snapshot SHA256 is the bundle hash, not the tree hash used for disk
// snapshots, so it lines up with the SSM parameter.
func (l *Loader) LoadHash(ctx context.Context, hash string) (*Snapshot, error) {
	loadedAt := time.Now().UTC()

	data, err := l.Download(ctx, hash)
	if err != nil {
		return nil, err
	}

	mfs, err := extractTarGzToMem(data)
	if err != nil {
		return nil, xerrors.Wrap(err, "extract bundle")
	}

	snap, err := newSnapshot(mfs, SourceS3)
	if err != nil {
		return nil, err
	}
	snap.Meta.SHA256 = hash
	snap.Meta.Version = truncHash(hash)
	snap.LoadedAt = loadedAt

	l.logger.Info(ctx, "extracted content bundle",
		"hash", truncHash(hash),
		"articles", snap.Meta.Articles,
	)
	return snap, nil
}

// LoadIntoManager fetches the current release, validates it and updates the content manager
func (l *Loader) LoadIntoManager(ctx context.Context, mgr *Manager, opts ValidationOptions) error {
	snap, err := l.Load(ctx)
	if err != nil {
		return err
	}
	if err := ValidateSnapshot(ctx, snap, opts); err != nil {
		return err
	}
	mgr.Set(*snap)
	return nil
}
