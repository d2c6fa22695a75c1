package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	CookieSecret string `yaml:"cookie_secret"`
	TTLHours     int64  `yaml:"ttl_hours"`
}

type R2Config struct {
	AccountID       string `yaml:"account_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BucketName      string `yaml:"bucket_name"`
	PublicURL       string `yaml:"public_url"`
}

type StorageConfig struct {
	// Driver is "disk" or "r2".
	Driver    string   `yaml:"driver"`
	Root      string   `yaml:"root"`
	PublicURL string   `yaml:"public_url"`
	R2        R2Config `yaml:"r2"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Load reads config.yaml from dir, after loading .env so that environment
// overrides can come from either the process or a dotenv file.
func Load(dir string) *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is normal outside local development.
	}

	cfg := &Config{}
	data, err := os.ReadFile(dir + "/config.yaml")
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Parse config failed: %v", err)
		}
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		c.Postgres.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Postgres.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Postgres.Name = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("SESSION_COOKIE_SECRET"); v != "" {
		c.Session.CookieSecret = v
	}
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Session.TTLHours = parsed
		}
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("STORAGE_ROOT"); v != "" {
		c.Storage.Root = v
	}
	if v := os.Getenv("STORAGE_PUBLIC_URL"); v != "" {
		c.Storage.PublicURL = v
	}
	if v := os.Getenv("CLOUDFLARE_ACCOUNT_ID"); v != "" {
		c.Storage.R2.AccountID = v
	}
	if v := os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"); v != "" {
		c.Storage.R2.AccessKeyID = v
	}
	if v := os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"); v != "" {
		c.Storage.R2.SecretAccessKey = v
	}
	if v := os.Getenv("CLOUDFLARE_BUCKET_NAME"); v != "" {
		c.Storage.R2.BucketName = v
	}
	if v := os.Getenv("CLOUDFLARE_PUBLIC_URL"); v != "" {
		c.Storage.R2.PublicURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 24 * 7
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "disk"
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "./data/blobs"
	}
}
