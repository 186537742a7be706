// Package config resolves service settings from defaults, an optional
// movemate.yaml, a .env file, MOVEMATE_* environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "MOVEMATE"

type Config struct {
	Port        int
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	CookieSecure bool
	CORSOrigins  []string

	Latency            time.Duration
	ResetTTL           time.Duration
	ResetPurgeInterval time.Duration
	DurableTTL         time.Duration
	TabTTL             time.Duration

	SeedFile string

	LogLevel  string
	LogFormat string
}

// SetDefaults registers every key on v so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("latency", time.Second)
	v.SetDefault("reset_ttl", 30*time.Minute)
	v.SetDefault("reset_purge_interval", 10*time.Minute)
	v.SetDefault("durable_ttl", 30*24*time.Hour)
	v.SetDefault("tab_ttl", 2*time.Hour)
	v.SetDefault("seed_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Init prepares v: defaults, the MOVEMATE_ env binding, a .env file in the
// working directory and the config file. Missing .env or config files are
// not errors.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("movemate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.movemate")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Load reads the resolved settings out of v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:               v.GetInt("port"),
		DatabaseURL:        v.GetString("database_url"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		JWTSecret:          v.GetString("jwt_secret"),
		CookieSecure:       v.GetBool("cookie_secure"),
		CORSOrigins:        splitList(v.GetStringSlice("cors_origins")),
		Latency:            v.GetDuration("latency"),
		ResetTTL:           v.GetDuration("reset_ttl"),
		ResetPurgeInterval: v.GetDuration("reset_purge_interval"),
		DurableTTL:         v.GetDuration("durable_ttl"),
		TabTTL:             v.GetDuration("tab_ttl"),
		SeedFile:           v.GetString("seed_file"),
		LogLevel:           strings.ToLower(v.GetString("log.level")),
		LogFormat:          strings.ToLower(v.GetString("log.format")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.Port <= 0 || cfg.Port >= 65536 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Latency < 0 {
		return Config{}, fmt.Errorf("latency must not be negative")
	}
	if cfg.ResetTTL <= 0 {
		return Config{}, fmt.Errorf("reset_ttl must be positive")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unknown log.format %q", cfg.LogFormat)
	}
	return cfg, nil
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
