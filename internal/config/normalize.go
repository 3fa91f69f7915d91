package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeProject(); err != nil {
		return err
	}
	c.normalizeClean()
	if err := c.normalizeManifest(); err != nil {
		return err
	}
	c.normalizePackaging()
	c.normalizeWatch()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeProject() error {
	var err error
	if strings.TrimSpace(c.Project.Root) == "" {
		c.Project.Root = defaultProjectRoot
	}
	if c.Project.Root, err = expandPath(c.Project.Root); err != nil {
		return fmt.Errorf("project.root: %w", err)
	}
	c.Project.Name = strings.TrimSpace(c.Project.Name)
	if c.Project.Name == "" {
		c.Project.Name = filepath.Base(c.Project.Root)
	}
	return nil
}

func (c *Config) normalizeClean() {
	patterns := make([]string, 0, len(c.Clean.Patterns))
	seen := make(map[string]struct{}, len(c.Clean.Patterns))
	for _, pattern := range c.Clean.Patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		patterns = append(patterns, trimmed)
	}
	c.Clean.Patterns = patterns
}

func (c *Config) normalizeManifest() error {
	c.Manifest.Tool = strings.TrimSpace(c.Manifest.Tool)
	if c.Manifest.Tool == "" {
		if value, ok := os.LookupEnv("WHEELWRIGHT_PIPREQS"); ok {
			c.Manifest.Tool = strings.TrimSpace(value)
		}
	}
	if c.Manifest.Tool == "" {
		c.Manifest.Tool = defaultManifestTool
	}
	c.Manifest.SavePath = strings.TrimSpace(c.Manifest.SavePath)
	if c.Manifest.SavePath == "" {
		c.Manifest.SavePath = defaultManifestSavePath
	}
	c.Manifest.IgnoreDirs = trimStrings(c.Manifest.IgnoreDirs)
	if c.Manifest.TimeoutSeconds <= 0 {
		c.Manifest.TimeoutSeconds = defaultManifestTimeout
	}
	return nil
}

func (c *Config) normalizePackaging() {
	c.Packaging.Python = strings.TrimSpace(c.Packaging.Python)
	if c.Packaging.Python == "" {
		if value, ok := os.LookupEnv("WHEELWRIGHT_PYTHON"); ok {
			c.Packaging.Python = strings.TrimSpace(value)
		}
	}
	if c.Packaging.Python == "" {
		c.Packaging.Python = defaultPython
	}
	formats := make([]string, 0, len(c.Packaging.Formats))
	seen := make(map[string]struct{}, len(c.Packaging.Formats))
	for _, format := range c.Packaging.Formats {
		normalized := strings.ToLower(strings.TrimSpace(format))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	if len(formats) == 0 {
		formats = []string{"sdist", "wheel"}
	}
	c.Packaging.Formats = formats
	c.Packaging.OutputDir = strings.TrimSpace(c.Packaging.OutputDir)
	if c.Packaging.OutputDir == "" {
		c.Packaging.OutputDir = defaultOutputDir
	}
	if c.Packaging.TimeoutSeconds <= 0 {
		c.Packaging.TimeoutSeconds = defaultPackagingTimeout
	}
}

func (c *Config) normalizeWatch() {
	if c.Watch.DebounceSeconds <= 0 {
		c.Watch.DebounceSeconds = defaultWatchDebounce
	}
	extensions := make([]string, 0, len(c.Watch.Extensions))
	seen := make(map[string]struct{}, len(c.Watch.Extensions))
	for _, ext := range c.Watch.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		extensions = append(extensions, normalized)
	}
	if len(extensions) == 0 {
		extensions = []string{".py"}
	}
	c.Watch.Extensions = extensions
	c.Watch.IgnoreDirs = trimStrings(c.Watch.IgnoreDirs)
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimStrings(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
