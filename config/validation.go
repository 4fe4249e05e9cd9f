package config

import (
	"fmt"
	"net"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
)

// Validate validates the configuration
func Validate(cfg Config) error {
	if err := validateApp(cfg.App()); err != nil {
		return fmt.Errorf("app config validation failed: %w", err)
	}

	if err := validateServer(cfg.Server()); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateDatabase(cfg.Database()); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}

	if err := validateRedis(cfg.Redis()); err != nil {
		return fmt.Errorf("redis config validation failed: %w", err)
	}

	if err := validateCache(cfg.Cache()); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := validateLogger(cfg.Logger()); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := validateRealtime(cfg.Realtime()); err != nil {
		return fmt.Errorf("realtime config validation failed: %w", err)
	}

	if err := validateScheduler(cfg.Scheduler()); err != nil {
		return fmt.Errorf("scheduler config validation failed: %w", err)
	}

	if err := validateSeed(cfg.Seed()); err != nil {
		return fmt.Errorf("seed config validation failed: %w", err)
	}
	return nil
}

func validateApp(cfg AppConfig) error {
	if cfg.Environment() == "" {
		return fmt.Errorf("environment variable is required, please set ENV env variable")
	}

	switch cfg.Environment() {
	case LocalEnv, DevelopmentEnv, ProductionEnv:
	default:
		return fmt.Errorf("ENV=%s is invalid, only accept `%s`, `%s`, `%s`", cfg.Environment(), LocalEnv, DevelopmentEnv, ProductionEnv)
	}

	if cfg.Name() == "" {
		return fmt.Errorf("name is required")
	}

	if cfg.TokenIssuer() == "" {
		return fmt.Errorf("token_issuer is required")
	}

	if cfg.AccessTokenExpiresIn() <= 0 {
		return fmt.Errorf("access_token_expires_in must be positive")
	}

	if cfg.AccessTokenSecret() == "" {
		return fmt.Errorf("access token secret is required, please set ACCESS_TOKEN_SECRET env variable")
	}

	if cfg.IsProduction() && len(cfg.AccessTokenSecret()) < 32 {
		return fmt.Errorf("access token secret must be at least 32 characters in production")
	}

	// bcrypt accepts 4..31
	if cfg.BcryptCost() < 4 || cfg.BcryptCost() > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31")
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.Host() != "0.0.0.0" && cfg.Host() != "localhost" {
		if net.ParseIP(cfg.Host()) == nil {
			return fmt.Errorf("host must be a valid IP address or 'localhost'")
		}
	}

	if cfg.Port() <= 0 || cfg.Port() > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if cfg.ReadTimeout() <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if cfg.WriteTimeout() <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	if cfg.ShutdownTimeout() <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}

	for _, origin := range cfg.AllowedOrigins() {
		if origin != "*" && !strings.HasPrefix(origin, "http") {
			return fmt.Errorf("allowed origin %q must start with http:// or https://", origin)
		}
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("database host is required")
	}

	if cfg.Port() == "" {
		return fmt.Errorf("database port is required")
	}

	if port, err := strconv.Atoi(cfg.Port()); err != nil {
		return fmt.Errorf("database port must be numeric: %w", err)
	} else if port <= 0 || port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535")
	}

	if cfg.User() == "" {
		return fmt.Errorf("database user is required")
	}

	if cfg.Password() == "" {
		return fmt.Errorf("database password is required")
	}

	if cfg.Name() == "" {
		return fmt.Errorf("database name is required")
	}

	if cfg.MaxOpenConns() <= 0 {
		return fmt.Errorf("max_open_conns must be positive")
	}

	if cfg.MaxIdleConns() <= 0 {
		return fmt.Errorf("max_idle_conns must be positive")
	}

	if cfg.MaxIdleConns() > cfg.MaxOpenConns() {
		return fmt.Errorf("max_idle_conns cannot be greater than max_open_conns")
	}

	if cfg.ConnMaxLifetime() <= 0 {
		return fmt.Errorf("conn_max_lifetime must be positive")
	}

	if cfg.QueryTimeout() <= 0 {
		return fmt.Errorf("query_timeout must be positive")
	}

	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !lo.Contains(validSSLModes, cfg.SSLMode()) {
		return fmt.Errorf("ssl_mode must be one of: %s", strings.Join(validSSLModes, ", "))
	}

	if cfg.EnableLog() {
		validLogLevels := []string{"silent", "error", "warn", "info"}
		if !lo.Contains(validLogLevels, cfg.LogLevel()) {
			return fmt.Errorf("database log_level must be one of: %s", strings.Join(validLogLevels, ", "))
		}
	}

	return nil
}

func validateRedis(cfg RedisConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("redis host is required")
	}

	if cfg.Port() <= 0 || cfg.Port() > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}

	if cfg.DB() < 0 || cfg.DB() > 15 {
		return fmt.Errorf("redis db must be between 0 and 15")
	}

	return nil
}

func validateCache(cfg CacheConfig) error {
	validProviders := []string{"redis", "memory"}
	if !lo.Contains(validProviders, cfg.Provider()) {
		return fmt.Errorf("cache provider must be one of: %s", strings.Join(validProviders, ", "))
	}

	if cfg.DefaultTTL() <= 0 {
		return fmt.Errorf("default_ttl must be positive")
	}

	if cfg.MenuTreeTTL() <= 0 {
		return fmt.Errorf("menu_tree_ttl must be positive")
	}

	if cfg.Provider() == "memory" && cfg.MaxSize() <= 0 {
		return fmt.Errorf("max_size must be positive for the memory provider")
	}

	return nil
}

func validateLogger(cfg LoggerConfig) error {
	if cfg.LogFilePath() == "" {
		return fmt.Errorf("log_file_path is required")
	}

	if err := os.MkdirAll(cfg.LogFilePath(), 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}

	if cfg.LogFileName() == "" {
		return fmt.Errorf("log_file_name is required")
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !lo.Contains(validLevels, cfg.LogLevel()) {
		return fmt.Errorf("log_level must be one of: %s", strings.Join(validLevels, ", "))
	}

	if cfg.MaxFileSizeMB() <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}

	if cfg.MaxFileAgeDays() <= 0 {
		return fmt.Errorf("max_file_age_days must be positive")
	}

	if cfg.MaxBackupFiles() <= 0 {
		return fmt.Errorf("max_backup_files must be positive")
	}

	// a layout without verbs formats to itself
	if cfg.TimestampFormat() != "" {
		if time.Now().Format(cfg.TimestampFormat()) == cfg.TimestampFormat() {
			return fmt.Errorf("invalid timestamp_format: %s", cfg.TimestampFormat())
		}
	}

	return nil
}

func validateRealtime(cfg RealtimeConfig) error {
	if cfg.SendBuffer() <= 0 {
		return fmt.Errorf("send_buffer must be positive")
	}

	if cfg.WriteTimeout() <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	if cfg.PongTimeout() <= 0 {
		return fmt.Errorf("pong_timeout must be positive")
	}

	if cfg.MaxMessageSize() <= 0 {
		return fmt.Errorf("max_message_size must be positive")
	}

	if cfg.PublishTimeout() <= 0 {
		return fmt.Errorf("publish_timeout must be positive")
	}

	return nil
}

func validateScheduler(cfg SchedulerConfig) error {
	if !cfg.Enabled() {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.AdExpiryCron()); err != nil {
		return fmt.Errorf("ad_expiry_cron %q is invalid: %w", cfg.AdExpiryCron(), err)
	}

	if cfg.JobTimeout() <= 0 {
		return fmt.Errorf("job_timeout must be positive")
	}

	return nil
}

func validateSeed(cfg SeedConfig) error {
	// seeding is skipped when no email is configured
	if cfg.SuperAdminEmail() == "" {
		return nil
	}

	if _, err := mail.ParseAddress(cfg.SuperAdminEmail()); err != nil {
		return fmt.Errorf("SUPER_ADMIN_EMAIL is not a valid address: %w", err)
	}

	if len(cfg.SuperAdminPassword()) < 8 {
		return fmt.Errorf("SUPER_ADMIN_PASSWORD must be at least 8 characters")
	}

	return nil
}
