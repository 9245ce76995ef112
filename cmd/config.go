package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"fastship/internal/adapters/out/kafka"
	"fastship/internal/adapters/out/mail"
	"fastship/internal/adapters/out/postgres"
	"fastship/internal/adapters/out/queue"
	"fastship/internal/adapters/out/redis"
	"fastship/internal/adapters/out/sms"
	"fastship/internal/jobs"
	"fastship/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: server.port is read from FASTSHIP_SERVER_PORT.
const EnvPrefix = "FASTSHIP"

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Queue        QueueConfig        `mapstructure:"queue"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Security     SecurityConfig     `mapstructure:"security"`
	Notification NotificationConfig `mapstructure:"notification"`
	Log          LogConfig          `mapstructure:"log"`
	Jobs         JobsConfig         `mapstructure:"jobs"`
}

type AppConfig struct {
	// BaseURL prefixes the links sent by mail (verification, password reset, review).
	BaseURL string `mapstructure:"base_url"`
	Env     string `mapstructure:"env"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type DatabaseConfig struct {
	Driver string     `mapstructure:"driver"`
	DSN    string     `mapstructure:"dsn"`
	Debug  bool       `mapstructure:"debug"`
	Pool   PoolConfig `mapstructure:"pool"`
}

type PoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type QueueConfig struct {
	Addr        string         `mapstructure:"addr"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	AccessTokenTTL      time.Duration `mapstructure:"access_token_ttl"`
	URLTokenSecret      string        `mapstructure:"url_token_secret"`
	URLTokenTTL         time.Duration `mapstructure:"url_token_ttl"`
	PasswordAlgorithm   string        `mapstructure:"password_algorithm"`
	VerificationCodeTTL time.Duration `mapstructure:"verification_code_ttl"`
}

type NotificationConfig struct {
	Mail   MailConfig   `mapstructure:"mail"`
	Twilio TwilioConfig `mapstructure:"twilio"`
}

// MailConfig falls back to logging rendered mails when Host is empty.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	UseSSL   bool   `mapstructure:"use_ssl"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// TwilioConfig falls back to logging text messages when AccountSID is empty.
type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
}

type LogConfig struct {
	Mode       string `mapstructure:"mode"`
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type JobsConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	OutboxRelay       string `mapstructure:"outbox_relay"`
	OutboxBatchSize   int    `mapstructure:"outbox_batch_size"`
	CapacityReconcile string `mapstructure:"capacity_reconcile"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.base_url", "http://localhost:8000")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./fastship.db")
	v.SetDefault("database.debug", false)
	v.SetDefault("database.pool.max_open_conns", 10)
	v.SetDefault("database.pool.max_idle_conns", 5)
	v.SetDefault("database.pool.conn_max_lifetime", time.Hour)
	v.SetDefault("database.pool.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "fastship")

	v.SetDefault("queue.addr", "127.0.0.1:6379")
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{queue.DefaultQueue: 1})

	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.topic", "fastship.shipment-events")

	v.SetDefault("security.jwt_secret", "change-me-in-production")
	v.SetDefault("security.access_token_ttl", 24*time.Hour)
	v.SetDefault("security.url_token_secret", "change-me-in-production-too")
	v.SetDefault("security.url_token_ttl", 24*time.Hour)
	v.SetDefault("security.password_algorithm", "bcrypt")
	v.SetDefault("security.verification_code_ttl", 24*time.Hour)

	v.SetDefault("notification.mail.host", "")
	v.SetDefault("notification.mail.port", 587)
	v.SetDefault("notification.mail.username", "")
	v.SetDefault("notification.mail.password", "")
	v.SetDefault("notification.mail.from", "no-reply@fastship.local")
	v.SetDefault("notification.mail.from_name", "FastShip")
	v.SetDefault("notification.mail.use_ssl", false)
	v.SetDefault("notification.mail.use_tls", true)
	v.SetDefault("notification.twilio.account_sid", "")
	v.SetDefault("notification.twilio.auth_token", "")
	v.SetDefault("notification.twilio.from", "")

	v.SetDefault("log.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "fastship.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.outbox_relay", "@every 5s")
	v.SetDefault("jobs.outbox_batch_size", 100)
	v.SetDefault("jobs.capacity_reconcile", "0 */10 * * * *")
}

// LoadConfig reads .env (if present), then config.yaml from the usual locations (if
// present), then FASTSHIP_* environment variables, over the built-in defaults.
// An explicit configFile must exist.
func LoadConfig(configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Mode:       c.Log.Mode,
		Level:      c.Log.Level,
		Dir:        c.Log.Dir,
		Filename:   c.Log.Filename,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

func (c Config) DatabaseOptions() postgres.Options {
	return postgres.Options{
		Driver:          c.Database.Driver,
		DSN:             c.Database.DSN,
		MaxOpenConns:    c.Database.Pool.MaxOpenConns,
		MaxIdleConns:    c.Database.Pool.MaxIdleConns,
		ConnMaxLifetime: c.Database.Pool.ConnMaxLifetime,
		SlowThreshold:   c.Database.Pool.SlowThreshold,
		Debug:           c.Database.Debug,
	}
}

func (c Config) RedisOptions() redis.Options {
	return redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Prefix:   c.Redis.Prefix,
	}
}

func (c Config) QueueOptions() queue.Options {
	return queue.Options{
		Addr:        c.Queue.Addr,
		Password:    c.Queue.Password,
		DB:          c.Queue.DB,
		Concurrency: c.Queue.Concurrency,
		Queues:      c.Queue.Queues,
	}
}

func (c Config) KafkaOptions() kafka.Options {
	return kafka.Options{Brokers: c.Kafka.Brokers, Topic: c.Kafka.Topic}
}

func (c Config) MailOptions() mail.Options {
	m := c.Notification.Mail
	return mail.Options{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		From:     m.From,
		FromName: m.FromName,
		UseSSL:   m.UseSSL,
		UseTLS:   m.UseTLS,
	}
}

func (c Config) SMSOptions() sms.Options {
	t := c.Notification.Twilio
	return sms.Options{AccountSID: t.AccountSID, AuthToken: t.AuthToken, From: t.From}
}

func (c Config) Schedules() jobs.Schedules {
	return jobs.Schedules{
		OutboxRelay:       c.Jobs.OutboxRelay,
		OutboxBatchSize:   c.Jobs.OutboxBatchSize,
		CapacityReconcile: c.Jobs.CapacityReconcile,
	}
}
