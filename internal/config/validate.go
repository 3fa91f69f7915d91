package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProject(); err != nil {
		return err
	}
	if err := c.validateClean(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validatePackaging(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProject() error {
	if strings.TrimSpace(c.Project.Root) == "" {
		return errors.New("project.root must be set")
	}
	if strings.TrimSpace(c.Project.Name) == "" {
		return errors.New("project.name must be set")
	}
	return nil
}

func (c *Config) validateClean() error {
	for _, pattern := range c.Clean.Patterns {
		if filepath.IsAbs(pattern) {
			return fmt.Errorf("clean.patterns entry %q must be relative to the project root", pattern)
		}
		for _, segment := range strings.Split(filepath.ToSlash(pattern), "/") {
			if segment == ".." {
				return fmt.Errorf("clean.patterns entry %q must not escape the project root", pattern)
			}
		}
	}
	return nil
}

func (c *Config) validateManifest() error {
	if strings.TrimSpace(c.Manifest.Tool) == "" {
		return errors.New("manifest.tool must be set")
	}
	if strings.TrimSpace(c.Manifest.SavePath) == "" {
		return errors.New("manifest.save_path must be set")
	}
	if c.Manifest.TimeoutSeconds <= 0 {
		return errors.New("manifest.timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePackaging() error {
	if strings.TrimSpace(c.Packaging.Python) == "" {
		return errors.New("packaging.python must be set")
	}
	if len(c.Packaging.Formats) == 0 {
		return errors.New("packaging.formats must include at least one of sdist, wheel")
	}
	for _, format := range c.Packaging.Formats {
		switch format {
		case "sdist", "wheel":
		default:
			return fmt.Errorf("packaging.formats entry %q is not supported (want sdist or wheel)", format)
		}
	}
	if strings.TrimSpace(c.Packaging.OutputDir) == "" {
		return errors.New("packaging.output_dir must be set")
	}
	if c.Packaging.TimeoutSeconds <= 0 {
		return errors.New("packaging.timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceSeconds <= 0 {
		return errors.New("watch.debounce_seconds must be positive")
	}
	if len(c.Watch.Extensions) == 0 {
		return errors.New("watch.extensions must include at least one extension")
	}
	return nil
}
