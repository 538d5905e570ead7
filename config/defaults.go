package config

const (
	defaultConfigPath        = "~/.config/mediamcp/config.toml"
	defaultLogFormat         = "console"
	defaultServerDescription = "Video and audio processing tools built on FFmpeg"
	defaultServerName        = "mediamcp"
	defaultServerProfile     = "default"
	defaultServerVersion     = "1.0.0"
	projectConfigName        = "mediamcp.toml"

	// Environment overrides. They win over the configuration file.
	envFFmpeg   = "MEDIAMCP_FFMPEG"
	envFFprobe  = "MEDIAMCP_FFPROBE"
	envLogLevel = "MEDIAMCP_LOG_LEVEL"
)

// profileLogLevels maps a server profile to the log level used when none is set.
var profileLogLevels = map[string]string{
	"default":     "info",
	"development": "debug",
	"production":  "warn",
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
		},
		Temp: Temp{
			UniqueNames:         false,
			LockSharedArtifacts: true,
		},
		Server: Server{
			Name:        defaultServerName,
			Version:     defaultServerVersion,
			Description: defaultServerDescription,
			Profile:     defaultServerProfile,
		},
		Features: Features{
			MathTools:         true,
			GreetingResources: true,
		},
	}
}
