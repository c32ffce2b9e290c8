package rpack

import "log/slog"

// Option configures Build, BuildFiles, Open, and OpenSource.
type Option func(*config)

// SkipCompressionFunc reports whether a file should be stored uncompressed.
// It receives the logical path and the uncompressed size.
type SkipCompressionFunc func(path string, size int64) bool

type config struct {
	method Compression
	level  int
	logger *slog.Logger
	skip   SkipCompressionFunc
}

func newConfig(opts []Option) *config {
	cfg := &config{
		method: CompressionZlib,
		level:  DefaultLevel,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// log returns the logger, falling back to a discard logger if nil.
func (c *config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// WithCompression sets the compression method. For builds it applies to
// every entry and the index block; for opens it must name the method the
// pack was built with, since the format does not record it.
// Default: zlib.
func WithCompression(m Compression) Option {
	return func(c *config) {
		c.method = m
	}
}

// WithLevel sets the compression level for builds. Each method validates
// its own range (zlib and lzma 0-9, zstd 1-4; none ignores the level).
// Default: the method's own default.
func WithLevel(level int) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithLogger attaches a structured logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithSkipCompression stores entries matching fn uncompressed, overriding
// the build method per entry. Useful for already-compressed assets.
// Build-only.
func WithSkipCompression(fn SkipCompressionFunc) Option {
	return func(c *config) {
		c.skip = fn
	}
}

// GetOption configures a single Get call.
type GetOption func(*getConfig)

type getConfig struct {
	verify bool
}

// WithVerifyHash recomputes the digest of the decompressed bytes and fails
// the Get with ErrHashMismatch when it differs from the recorded one.
func WithVerifyHash() GetOption {
	return func(c *getConfig) {
		c.verify = true
	}
}
