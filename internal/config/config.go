// Package config loads application settings from environment variables
// with defaults and validates them on startup to fail fast on
// misconfiguration.
package config

import (
	"os"
	"path/filepath"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Picker  PickerConfig
	Output  OutputConfig
	Read    ReadConfig
	Logging LoggingConfig
}

// PickerConfig holds file picker settings.
type PickerConfig struct {
	// StartDir is the directory the picker opens in (default: working directory)
	StartDir string `env:"XLSX2VCF_START_DIR"`

	// ShowHidden lists dotfiles in the picker (default: false)
	ShowHidden bool `env:"XLSX2VCF_SHOW_HIDDEN" default:"false"`
}

// OutputConfig holds settings for the saved contacts file.
type OutputConfig struct {
	// Dir is where contacts.vcf is written (default: working directory)
	Dir string `env:"XLSX2VCF_OUTPUT_DIR"`
}

// ReadConfig holds settings for reading uploaded files.
type ReadConfig struct {
	// MaxFileSize is the largest file accepted, in bytes (default: 50MB)
	MaxFileSize int64 `env:"XLSX2VCF_MAX_FILE_SIZE" default:"52428800"`

	// ChunkSize is the read buffer size used for progress reporting (default: 32KB)
	ChunkSize int `env:"XLSX2VCF_READ_CHUNK_SIZE" default:"32768"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is where the interactive session writes logs (default: $TMPDIR/xlsx2vcf.log)
	File string `env:"LOG_FILE"`
}

// LogFile returns the configured log path or the default one.
func (c *LoggingConfig) LogFile() string {
	if c.File != "" {
		return c.File
	}
	return filepath.Join(os.TempDir(), "xlsx2vcf.log")
}

// Dir returns the picker start directory, falling back to the working directory.
func (c *PickerConfig) Dir() string {
	if c.StartDir != "" {
		return c.StartDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
