package bindgen

import (
	"log/slog"

	"github.com/go-hostgen/hostgen/internal/logging"
)

// config holds the resolved settings for one [Go] invocation.
type config struct {
	generatedBy string
	world       string
	pkgRoot     string
	versioned   bool
	logger      *slog.Logger
}

// Option configures a [Go] invocation.
type Option func(*config)

// GeneratedBy sets the tool name recorded in each generated file's
// "Code generated by ... DO NOT EDIT." header.
func GeneratedBy(name string) Option {
	return func(c *config) { c.generatedBy = name }
}

// World selects which world in the resolved package to generate bindings
// for. If empty, and the resolved package declares exactly one world, that
// world is used.
func World(name string) Option {
	return func(c *config) { c.world = name }
}

// PackageRoot sets the Go package path generated code is rooted at. If
// empty, it is derived from the target world's owning WIT package.
func PackageRoot(path string) Option {
	return func(c *config) { c.pkgRoot = path }
}

// Versioned controls whether a WIT package's semantic version is mixed
// into its generated Go package path.
func Versioned(versioned bool) Option {
	return func(c *config) { c.versioned = versioned }
}

// Logger sets the structured logger used to report generation progress.
// If unset, logs are discarded.
func Logger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func newConfig(opts ...Option) *config {
	c := &config{logger: logging.DiscardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
