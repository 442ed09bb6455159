package config

const (
	defaultFFmpeg    = "ffmpeg"
	defaultImg2Sixel = "img2sixel"
	defaultKitten    = "kitten"
	defaultJP2A      = "jp2a"
	defaultImg2Txt   = "img2txt"
	defaultMPV       = "mpv"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpeg:    defaultFFmpeg,
			Img2Sixel: defaultImg2Sixel,
			Kitten:    defaultKitten,
			JP2A:      defaultJP2A,
			Img2Txt:   defaultImg2Txt,
			MPV:       defaultMPV,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Tools.FFmpeg == "" {
		cfg.Tools.FFmpeg = def.Tools.FFmpeg
	}
	if cfg.Tools.Img2Sixel == "" {
		cfg.Tools.Img2Sixel = def.Tools.Img2Sixel
	}
	if cfg.Tools.Kitten == "" {
		cfg.Tools.Kitten = def.Tools.Kitten
	}
	if cfg.Tools.JP2A == "" {
		cfg.Tools.JP2A = def.Tools.JP2A
	}
	if cfg.Tools.Img2Txt == "" {
		cfg.Tools.Img2Txt = def.Tools.Img2Txt
	}
	if cfg.Tools.MPV == "" {
		cfg.Tools.MPV = def.Tools.MPV
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}
