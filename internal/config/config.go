// Package config loads the explorer configuration from flags, environment,
// an optional YAML file and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. FABEXP_FABRIC_CHANNEL.
const EnvPrefix = "FABEXP"

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"

	MinPollInterval = time.Second
	MaxConcurrency  = 64
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Fabric    FabricConfig    `mapstructure:"fabric"`
	Explorer  ExplorerConfig  `mapstructure:"explorer"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type FabricConfig struct {
	Channel       string            `mapstructure:"channel"`
	Orgs          []string          `mapstructure:"orgs"`
	DefaultOrg    string            `mapstructure:"default_org"`
	MSPIDs        map[string]string `mapstructure:"msp_ids"`
	WalletDir     string            `mapstructure:"wallet_dir"`
	ConnectionDir string            `mapstructure:"connection_dir"`
	Timeout       time.Duration     `mapstructure:"timeout"`
}

type ExplorerConfig struct {
	Concurrency  int           `mapstructure:"concurrency"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type CacheConfig struct {
	Mode          string        `mapstructure:"mode"`
	MemSize       int           `mapstructure:"mem_size"`
	MaxSizeMB     int           `mapstructure:"max_size_mb"`
	LifeWindow    time.Duration `mapstructure:"life_window"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.request_timeout", 2*time.Minute)
	v.SetDefault("server.shutdown_timeout", 3*time.Second)

	v.SetDefault("fabric.channel", "mychannel")
	v.SetDefault("fabric.orgs", []string{"org1", "org2"})
	v.SetDefault("fabric.default_org", "org1")
	v.SetDefault("fabric.msp_ids", map[string]string{"org1": "Org1MSP", "org2": "Org2MSP"})
	v.SetDefault("fabric.wallet_dir", "wallet")
	v.SetDefault("fabric.connection_dir", "connection")
	v.SetDefault("fabric.timeout", 30*time.Second)

	v.SetDefault("explorer.concurrency", 8)
	v.SetDefault("explorer.poll_interval", 5*time.Second)

	v.SetDefault("cache.mode", CacheMemory)
	v.SetDefault("cache.mem_size", 1024)
	v.SetDefault("cache.max_size_mb", 256)
	v.SetDefault("cache.life_window", time.Hour)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("telemetry.service_name", "fabexplorer")
	v.SetDefault("telemetry.otlp_endpoint", "")
}

// Load reads the configuration into a validated Config. configFile may be
// empty; a missing .env file is not an error.
func Load(v *viper.Viper, configFile, envFile string) (*Config, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func (c *Config) normalize() {
	// orgs given through the environment arrive as a single comma separated value
	var orgs []string
	for _, org := range c.Fabric.Orgs {
		for part := range strings.SplitSeq(org, ",") {
			if part = strings.TrimSpace(part); part != "" {
				orgs = append(orgs, part)
			}
		}
	}
	c.Fabric.Orgs = orgs
	c.Fabric.DefaultOrg = strings.TrimSpace(c.Fabric.DefaultOrg)
	c.Cache.Mode = strings.ToLower(strings.TrimSpace(c.Cache.Mode))
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Fabric.Channel == "" {
		errs = append(errs, errors.New("fabric.channel is required"))
	}
	if len(c.Fabric.Orgs) == 0 {
		errs = append(errs, errors.New("fabric.orgs must list at least one organization"))
	}
	if !slices.Contains(c.Fabric.Orgs, c.Fabric.DefaultOrg) {
		errs = append(errs, fmt.Errorf("fabric.default_org %q is not one of fabric.orgs %v", c.Fabric.DefaultOrg, c.Fabric.Orgs))
	}
	if c.Explorer.Concurrency < 1 || c.Explorer.Concurrency > MaxConcurrency {
		errs = append(errs, fmt.Errorf("explorer.concurrency must be between 1 and %d", MaxConcurrency))
	}
	if c.Explorer.PollInterval < MinPollInterval {
		errs = append(errs, fmt.Errorf("explorer.poll_interval is too small, it cannot be less than %s", MinPollInterval))
	}
	switch c.Cache.Mode {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required when cache.mode is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.mode %q is not one of none, memory, redis", c.Cache.Mode))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}

	return errors.Join(errs...)
}

// MSPID returns the MSP id configured for org.
func (c *Config) MSPID(org string) string {
	return c.Fabric.MSPIDs[org]
}
