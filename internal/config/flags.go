package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagCompression = flag.Int("compression", -1, "Envelope version for saved files (0-4)")
	flagFormat      = flag.String("format", "", "Texture export format (png, bmp)")
	flagOut         = flag.String("out", "", "Output directory for exported files")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagCompression >= 0 {
		cfg.Save.Compression = uint32(*flagCompression)
	}
	if *flagFormat != "" {
		cfg.Export.ImageFormat = *flagFormat
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
}
