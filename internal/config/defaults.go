package config

const (
	defaultConfigPath         = "~/.config/rollcall/config.toml"
	defaultDataDir            = "~/.local/share/rollcall"
	defaultLogDirName         = "logs"
	defaultDraftsDirName      = "drafts"
	defaultDatabaseName       = "rollcall.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 30
	defaultDraftLockTimeout   = 5
	defaultDraftRetentionDays = 14

	// DataDirEnv overrides paths.data_dir.
	DataDirEnv = "ROLLCALL_DATA_DIR"
)

// Default returns a Config populated with repository defaults. Empty
// directories are derived from the data directory during Load.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Drafts: Drafts{
			LockTimeoutSeconds: defaultDraftLockTimeout,
			RetentionDays:      defaultDraftRetentionDays,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
