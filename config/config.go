package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

// Lock backends.
const (
	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lock     LockConfig     `mapstructure:"lock"`
	Viewing  ViewingConfig  `mapstructure:"viewing"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Seal     SealConfig     `mapstructure:"seal"`
	IBC      IBCConfig      `mapstructure:"ibc"`
	Airdrop  AirdropConfig  `mapstructure:"airdrop"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type StoreConfig struct {
	Backend   string `mapstructure:"backend"`    // memory, badger, postgres
	BadgerDir string `mapstructure:"badger_dir"` // data directory for the badger backend
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LockConfig struct {
	Backend     string        `mapstructure:"backend"`      // memory, redis
	TTL         time.Duration `mapstructure:"ttl"`          // lease of a distributed lock
	WaitTimeout time.Duration `mapstructure:"wait_timeout"` // max wait to acquire a record lock
}

type ViewingConfig struct {
	Secret string        `mapstructure:"secret"` // HS256 key for viewing credentials
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AuthConfig struct {
	AccountSecret string        `mapstructure:"account_secret"` // HS256 key for account tokens; empty = owner endpoints refuse all callers
	Expiry        time.Duration `mapstructure:"expiry"`
	Issuer        string        `mapstructure:"issuer"`
}

type SealConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256, seals shielded metadata at rest
}

type IBCConfig struct {
	RelayerSecret string `mapstructure:"relayer_secret"` // empty = import endpoint unauthenticated
}

type AirdropConfig struct {
	MaxRecipients int `mapstructure:"max_recipients"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SNFT_ (Shielded NFT).
// Nested keys use underscore: SNFT_STORE_BACKEND, SNFT_VIEWING_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("store.badger_dir", "./data/nft")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "shielded_nft")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("lock.backend", LockMemory)
	v.SetDefault("lock.ttl", "10s")
	v.SetDefault("lock.wait_timeout", "5s")
	v.SetDefault("viewing.secret", "")
	v.SetDefault("viewing.expiry", "1h")
	v.SetDefault("viewing.issuer", "shielded-nft")
	v.SetDefault("auth.account_secret", "")
	v.SetDefault("auth.expiry", "24h")
	v.SetDefault("auth.issuer", "shielded-nft")
	v.SetDefault("seal.key", "")
	v.SetDefault("ibc.relayer_secret", "")
	v.SetDefault("airdrop.max_recipients", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SNFT_STORE_BACKEND -> store.backend
	v.SetEnvPrefix("SNFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations that cannot be wired.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StorePostgres:
	case StoreBadger:
		if c.Store.BadgerDir == "" {
			return errors.New("store.badger_dir is required for the badger backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	switch c.Lock.Backend {
	case LockMemory:
	case LockRedis:
		if !c.Redis.Enabled {
			return errors.New("lock.backend redis requires redis.enabled")
		}
		if c.Lock.TTL <= 0 {
			return errors.New("lock.ttl must be positive for the redis lock backend")
		}
	default:
		return fmt.Errorf("unknown lock.backend %q", c.Lock.Backend)
	}

	if c.Viewing.Secret == "" {
		return errors.New("viewing.secret is required")
	}
	if c.Auth.AccountSecret != "" && c.Auth.AccountSecret == c.Viewing.Secret {
		return errors.New("auth.account_secret must differ from viewing.secret")
	}
	if c.Store.Backend == StorePostgres && c.Seal.Key == "" {
		return errors.New("seal.key is required for the postgres backend")
	}
	if c.Airdrop.MaxRecipients <= 0 {
		return errors.New("airdrop.max_recipients must be positive")
	}
	return nil
}
