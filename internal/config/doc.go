// Package config loads viddl's TOML configuration.
//
// Values are decoded strictly on top of Default, then normalized so every
// path is absolute and the batch and cookies files default to names inside
// the download directory. VIDDL_DOWNLOAD_DIR overrides paths.download_dir.
package config
