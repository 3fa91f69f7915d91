package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"wheelwright/internal/textutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Project identifies the Python project being packaged.
type Project struct {
	Root string `toml:"root"`
	Name string `toml:"name"`
}

// Clean lists the artifact paths removed before each build. Entries are
// resolved relative to the project root and may contain glob metacharacters
// (for example "*.egg-info").
type Clean struct {
	Patterns []string `toml:"patterns"`
}

// Manifest contains configuration for the requirements-manifest generator.
type Manifest struct {
	Tool           string   `toml:"tool"`
	SavePath       string   `toml:"save_path"`
	IgnoreDirs     []string `toml:"ignore_dirs"`
	TimeoutSeconds int      `toml:"timeout"`
}

// Packaging contains configuration for the distribution build tool.
type Packaging struct {
	Python         string   `toml:"python"`
	Formats        []string `toml:"formats"`
	OutputDir      string   `toml:"output_dir"`
	TimeoutSeconds int      `toml:"timeout"`
}

// Watch contains configuration for the wheelwrightd source watcher.
type Watch struct {
	DebounceSeconds int      `toml:"debounce_seconds"`
	Extensions      []string `toml:"extensions"`
	IgnoreDirs      []string `toml:"ignore_dirs"`
}

// Paths contains directories wheelwright owns for its own state.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for wheelwright.
//
// Configuration sections by subsystem:
//   - Project: project root and display name
//   - Clean: artifact patterns removed before packaging
//   - Manifest: requirements generator tool and save path
//   - Packaging: packaging tool, distribution formats, output dir
//   - Watch: wheelwrightd debounce and file filters
//   - Paths: state and log directories
//   - Logging: log format and level
type Config struct {
	Project   Project   `toml:"project"`
	Clean     Clean     `toml:"clean"`
	Manifest  Manifest  `toml:"manifest"`
	Packaging Packaging `toml:"packaging"`
	Watch     Watch     `toml:"watch"`
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wheelwright/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/wheelwright/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("wheelwright.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories wheelwright needs
// to record build history and write logs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ManifestPath returns the absolute path of the requirements manifest file.
func (c *Config) ManifestPath() string {
	if filepath.IsAbs(c.Manifest.SavePath) {
		return c.Manifest.SavePath
	}
	return filepath.Join(c.Project.Root, c.Manifest.SavePath)
}

// DistDir returns the absolute path of the packaging output directory.
func (c *Config) DistDir() string {
	if filepath.IsAbs(c.Packaging.OutputDir) {
		return c.Packaging.OutputDir
	}
	return filepath.Join(c.Project.Root, c.Packaging.OutputDir)
}

// LockPath returns the flock path guarding builds of this project.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, textutil.SanitizeToken(c.Project.Name)+".lock")
}

// HistoryDBPath returns the location of the build history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
