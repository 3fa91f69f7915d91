package testsupport

import (
	"path/filepath"
	"testing"

	"wheelwright/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Project.Root = filepath.Join(base, "project")
	cfgVal.Project.Name = "demo"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	MkdirAll(t, cfgVal.Project.Root)

	return builder.cfg
}

// WithProjectName overrides the project display name on the test config.
func WithProjectName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Project.Name = name
	}
}

// WithFormats overrides the distribution formats on the test config.
func WithFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Packaging.Formats = formats
	}
}

// WithCleanPatterns overrides the artifact cleanup patterns on the test config.
func WithCleanPatterns(patterns ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Clean.Patterns = patterns
	}
}
