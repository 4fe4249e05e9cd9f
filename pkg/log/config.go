package log

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Level       string
	Format      string
	Environment string
	ServiceName string
	Version     string

	// OutputPath is stdout, stderr or a file path rotated by lumberjack.
	OutputPath string

	FileMaxSizeInMB  int
	FileMaxAgeInDays int
	FileMaxBackups   int
	CompressRotated  bool

	DisableCaller     bool
	DisableStacktrace bool
	Sampling          *SamplingConfig
}

type SamplingConfig struct {
	Initial    int
	Thereafter int
	Tick       time.Duration
}

// FileSettings is the subset of the application config that drives file output.
type FileSettings interface {
	LogFilePath() string
	LogFileName() string
	LogLevel() string
	FileExtension() string
	MaxFileSizeMB() int
	MaxFileAgeDays() int
	MaxBackupFiles() int
	IsCompressEnabled() bool
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log level: %s, must be one of: debug, info, warn, error, fatal", c.Level)
	}

	switch strings.ToLower(c.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'console'", c.Format)
	}

	if c.FileMaxSizeInMB <= 0 {
		return fmt.Errorf("file_max_size_mb must be greater than 0")
	}
	if c.FileMaxAgeInDays <= 0 {
		return fmt.Errorf("file_max_age_days must be greater than 0")
	}
	if c.FileMaxBackups < 0 {
		return fmt.Errorf("file_max_backups must be greater than or equal to 0")
	}
	if c.Sampling != nil && (c.Sampling.Initial <= 0 || c.Sampling.Thereafter <= 0) {
		return fmt.Errorf("sampling initial and thereafter must be greater than 0")
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Format:           "json",
		Environment:      "development",
		ServiceName:      "radio-cms",
		Version:          "1.0.0",
		OutputPath:       "stdout",
		FileMaxSizeInMB:  100,
		FileMaxAgeInDays: 30,
		FileMaxBackups:   10,
		CompressRotated:  true,
	}
}

func DevelopmentConfig() Config {
	config := DefaultConfig()
	config.Level = "debug"
	config.Format = "console"
	return config
}

func ProductionConfig(serviceName, version string) Config {
	config := DefaultConfig()
	config.Environment = "production"
	config.ServiceName = serviceName
	config.Version = version
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = &SamplingConfig{Initial: 100, Thereafter: 100}
	return config
}

// WithFile routes output to the rotating file described by settings.
func (c Config) WithFile(settings FileSettings) Config {
	if settings == nil || settings.LogFilePath() == "" || settings.LogFileName() == "" {
		return c
	}
	name := settings.LogFileName()
	if ext := settings.FileExtension(); ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	c.OutputPath = filepath.Join(settings.LogFilePath(), name)
	if settings.LogLevel() != "" {
		c.Level = settings.LogLevel()
	}
	if settings.MaxFileSizeMB() > 0 {
		c.FileMaxSizeInMB = settings.MaxFileSizeMB()
	}
	if settings.MaxFileAgeDays() > 0 {
		c.FileMaxAgeInDays = settings.MaxFileAgeDays()
	}
	if settings.MaxBackupFiles() > 0 {
		c.FileMaxBackups = settings.MaxBackupFiles()
	}
	c.CompressRotated = settings.IsCompressEnabled()
	return c
}
