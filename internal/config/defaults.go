package config

const (
	defaultDownloadDir = "/dl"
	defaultBatchName   = "urls.txt"
	defaultCookiesName = "cookies.txt"
	defaultYtDlp       = "yt-dlp"
	defaultFFmpeg      = "ffmpeg"
	defaultFFprobe     = "ffprobe"
	defaultVideoCodec  = "libx264"
	defaultAudioCodec  = "aac"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults. Batch and
// cookie file paths are derived from the download directory during
// normalization when left empty.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
		},
		Tools: Tools{
			YtDlp:   defaultYtDlp,
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Encoding: Encoding{
			VideoCodec: defaultVideoCodec,
			AudioCodec: defaultAudioCodec,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
