package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultConfigPath     = "config/config.yaml"
	defaultAddress        = ":4001"
	defaultTimeoutSeconds = 10
	defaultSessionStore   = StoreMemory
	defaultSessionTTL     = 168
	defaultCookieName     = "alpha_session"
	defaultDatabaseDriver = "mysql"
	defaultOTPPerMinute   = 5
	defaultOTPBurst       = 3
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQL    = "sql"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Platform struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"platform"`
	Session struct {
		Store        string `yaml:"store"`
		Secret       string `yaml:"secret"`
		TTLHours     int    `yaml:"ttl_hours"`
		CookieName   string `yaml:"cookie_name"`
		SecureCookie bool   `yaml:"secure_cookie"`
	} `yaml:"session"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		OTPPerMinute int `yaml:"otp_per_minute"`
		OTPBurst     int `yaml:"otp_burst"`
	} `yaml:"rate_limit"`
}

// LoadConfig reads the YAML file named by ALPHA_CONFIG, or config/config.yaml.
// The default file may be absent; environment variables then carry everything.
func LoadConfig() (Config, error) {
	path := os.Getenv("ALPHA_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		data = nil
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and defaults, and validates.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("PLATFORM_BASE_URL"); v != "" {
		c.Platform.BaseURL = v
	}
	if v, err := readIntEnv("PLATFORM_TIMEOUT_SECONDS"); err != nil {
		return fmt.Errorf("parse PLATFORM_TIMEOUT_SECONDS: %w", err)
	} else if v != nil {
		c.Platform.TimeoutSeconds = *v
	}
	if v := os.Getenv("SESSION_STORE"); v != "" {
		c.Session.Store = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v, err := readIntEnv("SESSION_TTL_HOURS"); err != nil {
		return fmt.Errorf("parse SESSION_TTL_HOURS: %w", err)
	} else if v != nil {
		c.Session.TTLHours = *v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		c.Redis.DB = *v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Platform.TimeoutSeconds == 0 {
		c.Platform.TimeoutSeconds = defaultTimeoutSeconds
	}
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	if c.Session.Store == "" {
		c.Session.Store = defaultSessionStore
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = defaultSessionTTL
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = defaultCookieName
	}
	if c.Database.Driver == "" {
		c.Database.Driver = defaultDatabaseDriver
	}
	if c.RateLimit.OTPPerMinute == 0 {
		c.RateLimit.OTPPerMinute = defaultOTPPerMinute
	}
	if c.RateLimit.OTPBurst == 0 {
		c.RateLimit.OTPBurst = defaultOTPBurst
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Platform.BaseURL) == "" {
		return errors.New("platform base_url is required")
	}
	if c.Platform.TimeoutSeconds < 0 {
		return errors.New("platform timeout_seconds must be positive")
	}
	if c.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if c.Session.TTLHours < 0 {
		return errors.New("session ttl_hours must be positive")
	}
	if c.RateLimit.OTPPerMinute < 0 || c.RateLimit.OTPBurst < 0 {
		return errors.New("rate_limit values must be positive")
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis addr is required for the redis session store")
		}
	case StoreSQL:
		if c.Database.Driver != "mysql" && c.Database.Driver != "pgx" {
			return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
		}
		if c.Database.URL == "" {
			return errors.New("database url is required for the sql session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	return nil
}

func (c Config) PlatformTimeout() time.Duration {
	return time.Duration(c.Platform.TimeoutSeconds) * time.Second
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// OTPInterval is the refill interval of the per-client OTP limiter.
func (c Config) OTPInterval() time.Duration {
	return time.Minute / time.Duration(c.RateLimit.OTPPerMinute)
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
