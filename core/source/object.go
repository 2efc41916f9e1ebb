package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"recon-manager/core/dataset"
	"recon-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// Read parses r according to format.
func Read(name string, format Format, r io.Reader, opts ReadOptions) (*dataset.Dataset, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(name, r)
	case FormatXLSX:
		return ReadXLSX(name, r, opts)
	case FormatJSON:
		return ReadJSON(name, r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// LoadObject downloads an object and parses it by its extension.
func LoadObject(ctx context.Context, client storage.Client, bucket, key string, opts ReadOptions) (*dataset.Dataset, error) {
	format, err := DetectFormat(key)
	if err != nil {
		return nil, err
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	// Workbooks need random access, so buffer the whole object
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return nil, fmt.Errorf("failed to download object %s/%s: %w", bucket, key, err)
	}

	return Read("s3://"+bucket+"/"+key, format, &buf, opts)
}

// ListObjects returns the keys under prefix that a reader can parse.
func ListObjects(ctx context.Context, client storage.Client, bucket, prefix string) ([]string, error) {
	var keys []string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", bucket, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if _, err := DetectFormat(obj.Key); err == nil {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}
