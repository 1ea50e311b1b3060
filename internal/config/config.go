package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
		RateLimit   struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
		MaxUploadMB int64 `yaml:"maxUploadMB"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | memory
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
		Migrate  bool   `yaml:"migrate"`
		Pool     Pool   `yaml:"pool"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"openai"`

	// Auth maps an owner id to its API key. Empty disables authentication.
	Auth struct {
		Keys map[string]string `yaml:"keys"`
	} `yaml:"auth"`

	Log struct {
		Level string `yaml:"level"` // debug | info
	} `yaml:"log"`
}

// Pool sizes the database/sql connection pool.
type Pool struct {
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"` // e.g. "30m"
}

// Load reads the YAML file at path, then applies env overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML config bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit.Capacity == 0 {
		c.Server.RateLimit.Capacity = 60
	}
	if c.Server.RateLimit.RefillRate == 0 {
		c.Server.RateLimit.RefillRate = 1
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 25
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = 3306
		case "postgres":
			c.Database.Port = 5432
		}
	}
	if c.Database.Pool.MaxOpenConns == 0 {
		c.Database.Pool.MaxOpenConns = 25
	}
	if c.Database.Pool.MaxIdleConns == 0 {
		c.Database.Pool.MaxIdleConns = 10
	}
	if c.Database.Pool.ConnMaxLifetime == 0 {
		c.Database.Pool.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "recordings"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q not supported (mysql, postgres, memory)", c.Database.Driver))
	}
	if p := c.Database.Pool; p.MaxIdleConns > p.MaxOpenConns {
		errs = append(errs, fmt.Errorf("database.pool.maxIdleConns %d exceeds maxOpenConns %d", p.MaxIdleConns, p.MaxOpenConns))
	}
	if c.Minio.Enabled && c.Minio.Endpoint == "" {
		errs = append(errs, errors.New("minio.endpoint is required when minio is enabled"))
	}
	switch c.Log.Level {
	case "debug", "info":
	default:
		errs = append(errs, fmt.Errorf("log.level %q not supported (debug, info)", c.Log.Level))
	}
	return errors.Join(errs...)
}

// MySQLDSN builds the go-sql-driver DSN
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection URL
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// DSN returns the DSN for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "postgres" {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
}
