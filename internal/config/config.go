package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration supaya bisa di-unmarshal dari yaml ("20s", "60m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Server struct {
		Port              int               `yaml:"port"`
		APIKeys           map[string]string `yaml:"apiKeys"` // tenant -> key; empty disables auth
		RateLimitCapacity int               `yaml:"rateLimitCapacity"`
		RateLimitPerSec   int               `yaml:"rateLimitPerSec"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // "mysql", "postgres" or "" (audit log disabled)
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Scanner struct {
		BatchSize             int      `yaml:"batchSize"`
		BatchTimeout          Duration `yaml:"batchTimeout"`
		ExtractionTimeout     Duration `yaml:"extractionTimeout"`
		ClassificationTimeout Duration `yaml:"classificationTimeout"`
		MaxFileSize           int64    `yaml:"maxFileSize"`
		CacheTTL              Duration `yaml:"cacheTTL"`
		AnalyzerRatePerHour   int      `yaml:"analyzerRatePerHour"`
	} `yaml:"scanner"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	return &cfg, nil
}

// applyDefaults fills the scanner tunables that were left unset.
func (c *Config) applyDefaults() {
	s := &c.Scanner
	if s.BatchSize <= 0 {
		s.BatchSize = 2
	}
	if s.BatchTimeout <= 0 {
		s.BatchTimeout = Duration(20 * time.Second)
	}
	if s.ExtractionTimeout <= 0 {
		s.ExtractionTimeout = Duration(10 * time.Second)
	}
	if s.ClassificationTimeout <= 0 {
		s.ClassificationTimeout = Duration(5 * time.Second)
	}
	if s.MaxFileSize <= 0 {
		s.MaxFileSize = 10 << 20 // 10 MiB
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = Duration(60 * time.Minute)
	}
	if s.AnalyzerRatePerHour <= 0 {
		s.AnalyzerRatePerHour = 50
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimitCapacity <= 0 {
		c.Server.RateLimitCapacity = 100
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
