package config

const (
	defaultLibraryDir      = "~/Pictures"
	defaultDataDir         = "~/.local/share/photodup"
	defaultLogDir          = "~/.local/share/photodup/logs"
	defaultScanConcurrency = 5
	defaultScanTier        = "original"
	defaultSurvivor        = "none"
	defaultMaxScans        = 20
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Scan: Scan{
			Concurrency: defaultScanConcurrency,
			Tier:        defaultScanTier,
		},
		Deletion: Deletion{
			Survivor: defaultSurvivor,
		},
		Store: Store{
			MaxScans: defaultMaxScans,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
