package config

const (
	defaultConfigPath   = "~/.config/fixsrt/config.toml"
	defaultLanguage     = "fr"
	defaultBackup       = true
	defaultBackupSuffix = "~"
	defaultJobs         = 1
	defaultNormalizeNFC = false
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Rules: Rules{
			Language: defaultLanguage,
		},
		Files: Files{
			Backup:       defaultBackup,
			BackupSuffix: defaultBackupSuffix,
			Jobs:         defaultJobs,
		},
		Text: Text{
			NormalizeNFC: defaultNormalizeNFC,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
