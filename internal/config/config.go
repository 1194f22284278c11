package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Domain   DomainConfig
	Resolver ResolverConfig
	WS       WSConfig
	Log      LogConfig
	Migrate  bool
	HTTPAddr string
}

// DBConfig holds database configuration
type DBConfig struct {
	Driver string // mysql or sqlite
	DSN    string
}

// RedisConfig holds Redis configuration.
// An empty Addr disables the routing cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration.
// An empty Secret means only upstream tenant headers are accepted.
type JWTConfig struct {
	Secret string
	Issuer string
}

// DomainConfig holds custom domain settings
type DomainConfig struct {
	TargetCNAME string // hostname tenants point their CNAME at, e.g. cname.lnk.day
	BrandDomain string // platform zone; itself and its subdomains are reserved
}

// ResolverConfig holds DNS resolver configuration
type ResolverConfig struct {
	Nameservers []string // host:port; empty means /etc/resolv.conf
	TimeoutSec  int
}

// WSConfig holds Socket.IO configuration
type WSConfig struct {
	Enabled bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string // text or json
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "mysql"),
			DSN:    getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getEnv("JWT_ISSUER", "lnkday"),
		},
		Domain: DomainConfig{
			TargetCNAME: getEnv("DOMAIN_TARGET_CNAME", ""),
			BrandDomain: getEnv("DOMAIN_BRAND", "lnk.day"),
		},
		Resolver: ResolverConfig{
			Nameservers: splitList(getEnv("RESOLVER_NAMESERVERS", "")),
			TimeoutSec:  getEnvInt("RESOLVER_TIMEOUT_SEC", 5),
		},
		WS: WSConfig{
			Enabled: getEnv("WS_ENABLED", "1") == "1",
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	cfg := &Config{
		DB: DBConfig{
			Driver: getValue("DB_DRIVER", "mysql", "driver", "mysql"),
			DSN:    getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", ""),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret: getValue("JWT_SECRET", "jwt", "secret", ""),
			Issuer: getValue("JWT_ISSUER", "jwt", "issuer", "lnkday"),
		},
		Domain: DomainConfig{
			TargetCNAME: getValue("DOMAIN_TARGET_CNAME", "domain", "target_cname", ""),
			BrandDomain: getValue("DOMAIN_BRAND", "domain", "brand_domain", "lnk.day"),
		},
		Resolver: ResolverConfig{
			Nameservers: splitList(getValue("RESOLVER_NAMESERVERS", "resolver", "nameservers", "")),
			TimeoutSec:  getValueInt("RESOLVER_TIMEOUT_SEC", "resolver", "timeout_sec", 5),
		},
		WS: WSConfig{
			Enabled: getValueBool("WS_ENABLED", "ws", "enabled", true),
		},
		Log: LogConfig{
			Level:  getValue("LOG_LEVEL", "log", "level", "info"),
			Format: getValue("LOG_FORMAT", "log", "format", "text"),
		},
		Migrate:  getValueBool("MIGRATE", "app", "migrate", false),
		HTTPAddr: getValue("HTTP_ADDR", "http", "addr", ":8080"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.DSN == "" {
		return fmt.Errorf("MYSQL_DSN is required")
	}
	if c.DB.Driver != "mysql" && c.DB.Driver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DB.Driver)
	}
	if c.Domain.TargetCNAME == "" {
		return fmt.Errorf("DOMAIN_TARGET_CNAME is required")
	}
	if c.Resolver.TimeoutSec <= 0 {
		c.Resolver.TimeoutSec = 5
	}
	c.Domain.TargetCNAME = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(c.Domain.TargetCNAME)), ".")
	c.Domain.BrandDomain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(c.Domain.BrandDomain)), ".")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// splitList splits a comma separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
