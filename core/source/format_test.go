package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"left.csv", FormatCSV},
		{"dir/LEFT.XLSX", FormatXLSX},
		{"report.xlsm", FormatXLSX},
		{"rows.json", FormatJSON},
		{"export.txt", FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat("archive.zip")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUniqueHeader(t *testing.T) {
	got := uniqueHeader([]string{"id", " name ", "", "id", "id", "id.1"})
	assert.Equal(t, []string{"id", "name", "Unnamed: 2", "id.1", "id.2", "id.1.1"}, got)
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri  string
		want Location
	}{
		{"data/left.csv", Location{Scheme: SchemeFile, Path: "data/left.csv"}},
		{"s3://recon/in/left.xlsx", Location{Scheme: SchemeS3, Bucket: "recon", Path: "in/left.xlsx"}},
		{"s3:///left.csv", Location{Scheme: SchemeS3, Path: "left.csv"}},
		{"db://accounts", Location{Scheme: SchemeDB, Path: "accounts"}},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ParseURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "s3://bucket", "s3://bucket/", "db://", "db://a;drop"} {
		_, err := ParseURI(bad)
		assert.ErrorIs(t, err, ErrInvalidURI, bad)
	}

	assert.Equal(t, "s3://recon/k.csv", Location{Scheme: SchemeS3, Bucket: "recon", Path: "k.csv"}.String())
	assert.Equal(t, "db://t", Location{Scheme: SchemeDB, Path: "t"}.String())
}
