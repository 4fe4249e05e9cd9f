package config

import (
	"fmt"
	"time"
)

const (
	LocalEnv       = "local"
	DevelopmentEnv = "dev"
	ProductionEnv  = "prod"
)

type Config interface {
	App() AppConfig
	Server() ServerConfig
	Database() DatabaseConfig
	Redis() RedisConfig
	Cache() CacheConfig
	Logger() LoggerConfig
	Realtime() RealtimeConfig
	Scheduler() SchedulerConfig
	Seed() SeedConfig
}

type AppConfig interface {
	Name() string
	Version() string
	Environment() string
	IsProduction() bool
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	TokenIssuer() string
	BcryptCost() int
}

type ServerConfig interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	WriteTimeout() time.Duration
	IdleTimeout() time.Duration
	ShutdownTimeout() time.Duration
	MaxHeaderBytes() int
	AllowedOrigins() []string
}

type DatabaseConfig interface {
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	LogLevel() string
	EnableLog() bool
	QueryTimeout() time.Duration
	AutoMigrate() bool
}

type RedisConfig interface {
	Host() string
	Port() int
	Address() string
	Password() string
	DB() int
}

type CacheConfig interface {
	Provider() string
	DefaultTTL() time.Duration
	MaxSize() int
	MenuTreeTTL() time.Duration
}

type LoggerConfig interface {
	LogFilePath() string
	LogFileName() string
	TimestampFormat() string
	LogLevel() string
	FileExtension() string
	MaxFileSizeMB() int
	MaxFileAgeDays() int
	MaxBackupFiles() int
	IsCompressEnabled() bool
}

type RealtimeConfig interface {
	SendBuffer() int
	WriteTimeout() time.Duration
	PongTimeout() time.Duration
	MaxMessageSize() int64
	PublishTimeout() time.Duration
}

type SchedulerConfig interface {
	Enabled() bool
	AdExpiryCron() string
	JobTimeout() time.Duration
}

// SeedConfig describes the bootstrap super admin account.
type SeedConfig interface {
	SuperAdminEmail() string
	SuperAdminPassword() string
	SuperAdminName() string
}

type config struct {
	AppCfg       appConfig       `yaml:"app"`
	ServerCfg    serverConfig    `yaml:"server"`
	DatabaseCfg  databaseConfig  `yaml:"database"`
	RedisCfg     redisConfig     `yaml:"redis"`
	CacheCfg     cacheConfig     `yaml:"cache"`
	LoggerCfg    loggerConfig    `yaml:"logger"`
	RealtimeCfg  realtimeConfig  `yaml:"realtime"`
	SchedulerCfg schedulerConfig `yaml:"scheduler"`
	SeedCfg      seedConfig      `yaml:"seed"`
}

func (c *config) App() AppConfig {
	return &c.AppCfg
}

func (c *config) Server() ServerConfig {
	return &c.ServerCfg
}

func (c *config) Database() DatabaseConfig {
	return &c.DatabaseCfg
}

func (c *config) Redis() RedisConfig {
	return &c.RedisCfg
}

func (c *config) Cache() CacheConfig {
	return &c.CacheCfg
}

func (c *config) Logger() LoggerConfig {
	return &c.LoggerCfg
}

func (c *config) Realtime() RealtimeConfig {
	return &c.RealtimeCfg
}

func (c *config) Scheduler() SchedulerConfig {
	return &c.SchedulerCfg
}

func (c *config) Seed() SeedConfig {
	return &c.SeedCfg
}

func parseDuration(s string) time.Duration {
	duration, _ := time.ParseDuration(s)
	return duration
}

type appConfig struct {
	NameStr        string `yaml:"name" env-default:"radio-cms"`
	VersionStr     string `yaml:"version" env-default:"dev"`
	EnvironmentStr string `env:"ENV" env-default:"local"`

	TokenIssuerStr          string `yaml:"token_issuer" env-default:"radio-cms"`
	AccessTokenExpiresInStr string `yaml:"access_token_expires_in" env-default:"24h"`
	AccessTokenSecretStr    string `env:"ACCESS_TOKEN_SECRET"`
	BcryptCostInt           int    `yaml:"bcrypt_cost" env-default:"10"`
}

func (c *appConfig) Name() string {
	return c.NameStr
}

func (c *appConfig) Version() string {
	return c.VersionStr
}

func (c *appConfig) Environment() string {
	return c.EnvironmentStr
}

func (c *appConfig) IsProduction() bool {
	return c.EnvironmentStr == ProductionEnv
}

func (c *appConfig) AccessTokenExpiresIn() time.Duration {
	return parseDuration(c.AccessTokenExpiresInStr)
}

func (c *appConfig) AccessTokenSecret() string {
	return c.AccessTokenSecretStr
}

func (c *appConfig) TokenIssuer() string {
	return c.TokenIssuerStr
}

func (c *appConfig) BcryptCost() int {
	return c.BcryptCostInt
}

type serverConfig struct {
	HostStr            string   `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	PortInt            int      `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeoutStr     string   `yaml:"read_timeout" env-default:"15s"`
	WriteTimeoutStr    string   `yaml:"write_timeout" env-default:"15s"`
	IdleTimeoutStr     string   `yaml:"idle_timeout" env-default:"120s"`
	ShutdownTimeoutStr string   `yaml:"shutdown_timeout" env-default:"15s"`
	MaxHeaderBytesInt  int      `yaml:"max_header_bytes" env-default:"1048576"`
	AllowedOriginsArr  []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
}

func (s *serverConfig) Host() string {
	return s.HostStr
}

func (s *serverConfig) Port() int {
	return s.PortInt
}

func (s *serverConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.HostStr, s.PortInt)
}

func (s *serverConfig) ReadTimeout() time.Duration {
	return parseDuration(s.ReadTimeoutStr)
}

func (s *serverConfig) WriteTimeout() time.Duration {
	return parseDuration(s.WriteTimeoutStr)
}

func (s *serverConfig) IdleTimeout() time.Duration {
	return parseDuration(s.IdleTimeoutStr)
}

func (s *serverConfig) ShutdownTimeout() time.Duration {
	return parseDuration(s.ShutdownTimeoutStr)
}

func (s *serverConfig) MaxHeaderBytes() int {
	return s.MaxHeaderBytesInt
}

func (s *serverConfig) AllowedOrigins() []string {
	return s.AllowedOriginsArr
}

type databaseConfig struct {
	HostStr            string `env:"POSTGRES_HOST" env-default:"localhost"`
	PortStr            string `env:"POSTGRES_PORT" env-default:"5432"`
	UserStr            string `env:"POSTGRES_USER" env-default:"postgres"`
	PasswordStr        string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	NameStr            string `env:"POSTGRES_DBNAME" env-default:"radio"`
	SSLModeStr         string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MaxOpenConnsInt    int    `yaml:"max_open_conns" env-default:"25"`
	MaxIdleConnsInt    int    `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetimeStr string `yaml:"conn_max_lifetime" env-default:"5m"`
	EnableLoggingBool  bool   `yaml:"enable_logging" env-default:"false"`
	LogLevelStr        string `yaml:"log_level" env-default:"warn"`
	QueryTimeoutStr    string `yaml:"query_timeout" env-default:"5s"`
	AutoMigrateBool    bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

func (d *databaseConfig) Host() string {
	return d.HostStr
}

func (d *databaseConfig) Port() string {
	return d.PortStr
}

func (d *databaseConfig) User() string {
	return d.UserStr
}

func (d *databaseConfig) Password() string {
	return d.PasswordStr
}

func (d *databaseConfig) Name() string {
	return d.NameStr
}

func (d *databaseConfig) SSLMode() string {
	return d.SSLModeStr
}

func (d *databaseConfig) MaxOpenConns() int {
	return d.MaxOpenConnsInt
}

func (d *databaseConfig) MaxIdleConns() int {
	return d.MaxIdleConnsInt
}

func (d *databaseConfig) ConnMaxLifetime() time.Duration {
	return parseDuration(d.ConnMaxLifetimeStr)
}

func (d *databaseConfig) EnableLog() bool {
	return d.EnableLoggingBool
}

func (d *databaseConfig) LogLevel() string {
	return d.LogLevelStr
}

func (d *databaseConfig) QueryTimeout() time.Duration {
	return parseDuration(d.QueryTimeoutStr)
}

func (d *databaseConfig) AutoMigrate() bool {
	return d.AutoMigrateBool
}

type redisConfig struct {
	HostStr     string `env:"REDIS_HOST" env-default:"localhost"`
	PortInt     int    `env:"REDIS_PORT" env-default:"6379"`
	PasswordStr string `env:"REDIS_PASSWORD"`
	DBInt       int    `env:"REDIS_DB" env-default:"0"`
}

func (r *redisConfig) Host() string {
	return r.HostStr
}

func (r *redisConfig) Port() int {
	return r.PortInt
}

func (r *redisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host(), r.Port())
}

func (r *redisConfig) Password() string {
	return r.PasswordStr
}

func (r *redisConfig) DB() int {
	return r.DBInt
}

type cacheConfig struct {
	ProviderStr    string `yaml:"provider" env:"CACHE_PROVIDER" env-default:"redis"`
	DefaultTTLStr  string `yaml:"default_ttl" env-default:"1h"`
	MaxSizeInt     int    `yaml:"max_size" env-default:"1000"`
	MenuTreeTTLStr string `yaml:"menu_tree_ttl" env-default:"10m"`
}

func (c *cacheConfig) Provider() string {
	return c.ProviderStr
}

func (c *cacheConfig) DefaultTTL() time.Duration {
	return parseDuration(c.DefaultTTLStr)
}

func (c *cacheConfig) MaxSize() int {
	return c.MaxSizeInt
}

func (c *cacheConfig) MenuTreeTTL() time.Duration {
	return parseDuration(c.MenuTreeTTLStr)
}

type loggerConfig struct {
	LogFilePathStr     string `yaml:"log_file_path" env-default:"logs"`
	LogFileNameStr     string `yaml:"log_file_name" env-default:"radio-cms"`
	TimestampFormatStr string `yaml:"timestamp_format" env-default:"2006-01-02T15:04:05.000Z07:00"`
	LogLevelStr        string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	FileExtensionStr   string `yaml:"file_extension" env-default:".log"`
	MaxFileSizeMBInt   int    `yaml:"max_file_size_mb" env-default:"100"`
	MaxFileAgeDaysInt  int    `yaml:"max_file_age_days" env-default:"14"`
	MaxBackupFilesInt  int    `yaml:"max_backup_files" env-default:"10"`
	EnableCompressed   bool   `yaml:"enable_compressed" env-default:"true"`
}

func (l *loggerConfig) LogFilePath() string {
	return l.LogFilePathStr
}

func (l *loggerConfig) LogFileName() string {
	return l.LogFileNameStr
}

func (l *loggerConfig) TimestampFormat() string {
	return l.TimestampFormatStr
}

func (l *loggerConfig) LogLevel() string {
	return l.LogLevelStr
}

func (l *loggerConfig) FileExtension() string {
	return l.FileExtensionStr
}

func (l *loggerConfig) MaxFileSizeMB() int {
	return l.MaxFileSizeMBInt
}

func (l *loggerConfig) MaxFileAgeDays() int {
	return l.MaxFileAgeDaysInt
}

func (l *loggerConfig) MaxBackupFiles() int {
	return l.MaxBackupFilesInt
}

func (l *loggerConfig) IsCompressEnabled() bool {
	return l.EnableCompressed
}

type realtimeConfig struct {
	SendBufferInt     int    `yaml:"send_buffer" env-default:"64"`
	WriteTimeoutStr   string `yaml:"write_timeout" env-default:"10s"`
	PongTimeoutStr    string `yaml:"pong_timeout" env-default:"60s"`
	MaxMessageSizeInt int64  `yaml:"max_message_size" env-default:"4096"`
	PublishTimeoutStr string `yaml:"publish_timeout" env-default:"5s"`
}

func (r *realtimeConfig) SendBuffer() int {
	return r.SendBufferInt
}

func (r *realtimeConfig) WriteTimeout() time.Duration {
	return parseDuration(r.WriteTimeoutStr)
}

func (r *realtimeConfig) PongTimeout() time.Duration {
	return parseDuration(r.PongTimeoutStr)
}

func (r *realtimeConfig) MaxMessageSize() int64 {
	return r.MaxMessageSizeInt
}

func (r *realtimeConfig) PublishTimeout() time.Duration {
	return parseDuration(r.PublishTimeoutStr)
}

type schedulerConfig struct {
	EnabledBool     bool   `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"true"`
	AdExpiryCronStr string `yaml:"ad_expiry_cron" env-default:"@every 1m"`
	JobTimeoutStr   string `yaml:"job_timeout" env-default:"30s"`
}

func (s *schedulerConfig) Enabled() bool {
	return s.EnabledBool
}

func (s *schedulerConfig) AdExpiryCron() string {
	return s.AdExpiryCronStr
}

func (s *schedulerConfig) JobTimeout() time.Duration {
	return parseDuration(s.JobTimeoutStr)
}

type seedConfig struct {
	SuperAdminEmailStr    string `env:"SUPER_ADMIN_EMAIL" env-default:""`
	SuperAdminPasswordStr string `env:"SUPER_ADMIN_PASSWORD" env-default:""`
	SuperAdminNameStr     string `yaml:"super_admin_name" env:"SUPER_ADMIN_NAME" env-default:"Super Admin"`
}

func (s *seedConfig) SuperAdminEmail() string {
	return s.SuperAdminEmailStr
}

func (s *seedConfig) SuperAdminPassword() string {
	return s.SuperAdminPasswordStr
}

func (s *seedConfig) SuperAdminName() string {
	return s.SuperAdminNameStr
}
