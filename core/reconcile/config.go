package reconcile

import "time"

// DefaultServerMaxPairs bounds the cross product of API requests when
// ServerMaxPairs is unset.
const DefaultServerMaxPairs = 1_000_000

// Config holds the reconciliation defaults loaded by core/config.
type Config struct {
	// SuffixLeft is appended to colliding left column names.
	SuffixLeft string `mapstructure:"suffix_left" default:"_left"`
	// SuffixRight is appended to colliding right column names.
	SuffixRight string `mapstructure:"suffix_right" default:"_right"`
	// Sheet is the spreadsheet sheet read when a source is a workbook.
	Sheet string `mapstructure:"sheet" default:"Sheet1"`
	// MaxPairs caps the size of the matched cross product (0 = unlimited).
	MaxPairs int `mapstructure:"max_pairs" default:"0"`
	// ServerMaxPairs caps the cross product of API requests. The lower of
	// MaxPairs and ServerMaxPairs wins.
	ServerMaxPairs int `mapstructure:"server_max_pairs" default:"1000000"`
	// CacheTTLSeconds is how long engines built from named sources are reused.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}

// CacheTTL returns the engine cache lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Options builds engine options for the given key columns.
// Empty suffixes keep the defaults.
func (c Config) Options(leftOn, rightOn string) Options {
	opts := DefaultOptions(leftOn, rightOn)
	if c.SuffixLeft != "" {
		opts.LeftSuffix = c.SuffixLeft
	}
	if c.SuffixRight != "" {
		opts.RightSuffix = c.SuffixRight
	}
	opts.MaxPairs = c.MaxPairs
	return opts
}

// ServerOptions builds engine options for API requests, which always carry
// a pair limit.
func (c Config) ServerOptions(leftOn, rightOn string) Options {
	opts := c.Options(leftOn, rightOn)
	limit := c.ServerMaxPairs
	if limit <= 0 {
		limit = DefaultServerMaxPairs
	}
	if opts.MaxPairs <= 0 || opts.MaxPairs > limit {
		opts.MaxPairs = limit
	}
	return opts
}
