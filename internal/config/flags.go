package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagModel        = flag.String("model", "", "Path to model description (YAML)")
	flagEndpoint     = flag.String("endpoint", "", "Message feed URL to poll")
	flagWidth        = flag.Int("width", 0, "Window width")
	flagHeight       = flag.Int("height", 0, "Window height")
	flagPollInterval = flag.Duration("poll-interval", 0, "Message feed poll interval")
	flagLogFile      = flag.String("log-file", "", "Also write logs to this file")
	flagWriteConfig  = flag.Bool("write-config", false, "Write the effective config to the user config dir and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfig reports whether --write-config was given.
func WriteConfig() bool {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if *flagEndpoint != "" {
		cfg.Poller.Endpoint = *flagEndpoint
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagPollInterval > 0 {
		cfg.Poller.Interval = *flagPollInterval
	}
}

