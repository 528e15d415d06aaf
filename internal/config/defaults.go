package config

const (
	defaultFFmpegBinary = "ffmpeg"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultReportPath   = "~/.local/share/copy-tree-map/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcode: Transcode{
			FFmpegBinary: defaultFFmpegBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Report: Report{
			Enabled: false,
			Path:    defaultReportPath,
		},
	}
}
