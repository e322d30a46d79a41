package oaf

import "log/slog"

// DefaultMaxFiles is the file-count limit used when no WithMaxFiles option
// is set.
const DefaultMaxFiles = 200_000

// defaultReadConcurrency is used when no WithReadConcurrency option is set.
const defaultReadConcurrency = 4

// CreateOption configures Create.
type CreateOption func(*createConfig)

type createConfig struct {
	logger          *slog.Logger
	maxFiles        int
	readConcurrency int
}

// WithLogger sets a logger for archive creation. By default nothing is
// logged.
func WithLogger(l *slog.Logger) CreateOption {
	return func(c *createConfig) {
		c.logger = l
	}
}

// WithMaxFiles limits the number of files packed into the archive.
// Set limit to 0 to use DefaultMaxFiles; negative disables the limit.
func WithMaxFiles(limit int) CreateOption {
	return func(c *createConfig) {
		c.maxFiles = limit
	}
}

// WithReadConcurrency sets how many files are read concurrently during
// creation (default: 4). Values < 1 are treated as 1.
func WithReadConcurrency(n int) CreateOption {
	return func(c *createConfig) {
		if n < 1 {
			n = 1
		}
		c.readConcurrency = n
	}
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	logger        *slog.Logger
	overwrite     bool
	preserveMode  bool
	preserveTimes bool
}

// ExtractWithLogger sets a logger for extraction. By default nothing is
// logged.
func ExtractWithLogger(l *slog.Logger) ExtractOption {
	return func(c *extractConfig) {
		c.logger = l
	}
}

// ExtractWithOverwrite controls whether existing files are replaced.
// When false (the default) existing files are skipped.
func ExtractWithOverwrite(enabled bool) ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = enabled
	}
}

// ExtractWithPreserveMode restores recorded file modes on extracted files.
func ExtractWithPreserveMode(enabled bool) ExtractOption {
	return func(c *extractConfig) {
		c.preserveMode = enabled
	}
}

// ExtractWithPreserveTimes restores recorded modification times on
// extracted files.
func ExtractWithPreserveTimes(enabled bool) ExtractOption {
	return func(c *extractConfig) {
		c.preserveTimes = enabled
	}
}
