package parser

import "github.com/spf13/afero"

// SafeMode bounds what the include resolver will allow: at Secure,
// include:: directives are not expanded and are kept as literal text;
// Unsafe, Safe and Server all expand includes within the sandbox. It has
// no effect on link or image URL schemes, which the converter's
// AllowedURLSchemes option governs.
type SafeMode int

// SafeMode levels, from least to most restrictive.
const (
	Unsafe SafeMode = iota
	Safe
	Server
	Secure
)

// Options configures a Parser. Use DefaultOptions and the With* functions
// rather than constructing Options directly, matching the functional-
// options idiom used throughout this module's ambient configuration.
type Options struct {
	IncludeDirectivesEnabled bool
	BaseDirectory            string
	MaxIncludeDepth          int
	MaxNestingDepth          int
	SafeMode                 SafeMode

	// FS backs the include sandbox; nil means the real OS filesystem.
	FS afero.Fs
}

// DefaultOptions returns the default parser configuration.
func DefaultOptions() Options {
	return Options{
		IncludeDirectivesEnabled: true,
		BaseDirectory:            ".",
		MaxIncludeDepth:          64,
		MaxNestingDepth:          32,
		SafeMode:                 Unsafe,
	}
}

// Option mutates an Options in place.
type Option func(*Options)

// WithBaseDirectory sets the directory include paths resolve against.
func WithBaseDirectory(dir string) Option {
	return func(o *Options) { o.BaseDirectory = dir }
}

// WithMaxIncludeDepth bounds include nesting.
func WithMaxIncludeDepth(n int) Option {
	return func(o *Options) { o.MaxIncludeDepth = n }
}

// WithMaxNestingDepth bounds inline/block recursive-descent depth.
func WithMaxNestingDepth(n int) Option {
	return func(o *Options) { o.MaxNestingDepth = n }
}

// WithSafeMode sets the safe-mode policy bundle.
func WithSafeMode(mode SafeMode) Option {
	return func(o *Options) { o.SafeMode = mode }
}

// WithIncludeDirectivesEnabled toggles include:: processing entirely.
func WithIncludeDirectivesEnabled(enabled bool) Option {
	return func(o *Options) { o.IncludeDirectivesEnabled = enabled }
}

// WithFS swaps the filesystem backing the include sandbox, primarily for
// tests that want an afero.MemMapFs instead of the real disk.
func WithFS(fs afero.Fs) Option {
	return func(o *Options) { o.FS = fs }
}
