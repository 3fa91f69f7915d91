package config

const (
	defaultProjectRoot      = "."
	defaultStateDir         = "~/.local/share/wheelwright"
	defaultLogDir           = "~/.local/share/wheelwright/logs"
	defaultManifestTool     = "pipreqs"
	defaultManifestSavePath = "requirements.txt"
	defaultManifestTimeout  = 120
	defaultPython           = "python3"
	defaultOutputDir        = "dist"
	defaultPackagingTimeout = 600
	defaultWatchDebounce    = 2
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Project: Project{
			Root: defaultProjectRoot,
		},
		Clean: Clean{
			Patterns: []string{"build", "dist", "*.egg-info"},
		},
		Manifest: Manifest{
			Tool:           defaultManifestTool,
			SavePath:       defaultManifestSavePath,
			IgnoreDirs:     []string{"build", "dist", "tests"},
			TimeoutSeconds: defaultManifestTimeout,
		},
		Packaging: Packaging{
			Python:         defaultPython,
			Formats:        []string{"sdist", "wheel"},
			OutputDir:      defaultOutputDir,
			TimeoutSeconds: defaultPackagingTimeout,
		},
		Watch: Watch{
			DebounceSeconds: defaultWatchDebounce,
			Extensions:      []string{".py", ".toml", ".cfg", ".ini"},
			IgnoreDirs:      []string{"build", "dist", ".git", "__pycache__"},
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
