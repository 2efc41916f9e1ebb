package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"recon-manager/core/dataset"
	"recon-manager/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheme identifies where a source lives.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
	SchemeDB   Scheme = "db"
)

// Location is a parsed source URI.
type Location struct {
	Scheme Scheme
	// Bucket is set for s3 sources; empty means the default bucket.
	Bucket string
	// Path is the file path, object key or table name.
	Path string
}

// String renders the location back into URI form.
func (l Location) String() string {
	switch l.Scheme {
	case SchemeS3:
		return "s3://" + l.Bucket + "/" + l.Path
	case SchemeDB:
		return "db://" + l.Path
	}
	return l.Path
}

// ParseURI splits a source URI. Anything without a known scheme is a file path.
func ParseURI(uri string) (Location, error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		rest := strings.TrimPrefix(uri, "s3://")
		bucket, key, found := strings.Cut(rest, "/")
		if !found || key == "" {
			return Location{}, fmt.Errorf("%w: %q needs s3://bucket/key", ErrInvalidURI, uri)
		}
		return Location{Scheme: SchemeS3, Bucket: bucket, Path: key}, nil
	case strings.HasPrefix(uri, "db://"):
		table := strings.TrimPrefix(uri, "db://")
		if table == "" || strings.ContainsAny(table, "/ ;`'\"") {
			return Location{}, fmt.Errorf("%w: %q needs db://table", ErrInvalidURI, uri)
		}
		return Location{Scheme: SchemeDB, Path: table}, nil
	case uri == "":
		return Location{}, fmt.Errorf("%w: empty source", ErrInvalidURI)
	}
	return Location{Scheme: SchemeFile, Path: uri}, nil
}

// Resolver loads datasets from any supported location.
// Storage and database are optional; sources needing them fail with ErrUnavailable.
type Resolver struct {
	client storage.Client
	bucket string
	db     *gorm.DB
	logger *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(client storage.Client, bucket string, db *gorm.DB, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{client: client, bucket: bucket, db: db, logger: logger}
}

// Load opens the source at uri.
func (r *Resolver) Load(ctx context.Context, uri string, opts ReadOptions) (*dataset.Dataset, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	var ds *dataset.Dataset
	switch loc.Scheme {
	case SchemeS3:
		if r.client == nil {
			return nil, fmt.Errorf("%w: no object storage configured for %s", ErrUnavailable, uri)
		}
		bucket := loc.Bucket
		if bucket == "" {
			bucket = r.bucket
		}
		ds, err = LoadObject(ctx, r.client, bucket, loc.Path, opts)
	case SchemeDB:
		ds, err = LoadTable(ctx, r.db, loc.Path)
	default:
		ds, err = LoadFile(loc.Path, opts)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Source loaded",
		zap.String("source", uri),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns())))
	return ds, nil
}

// LoadFile reads a local file by its extension.
func LoadFile(path string, opts ReadOptions) (*dataset.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(path, format, f, opts)
}
