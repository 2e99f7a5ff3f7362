package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const defaultSessionSecret = "lost$found"

type Config struct {
	Port    string `env:"PORT" envDefault:"3000"`
	SiteURL string `env:"SITE_URL" envDefault:"http://localhost:3000"`

	// mongodb:// | postgres:// | sqlite:<path>
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"mongodb://localhost:27017/lostfound"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"lostfound"`

	SessionSecret      string `env:"SESSION_SECRET"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	UploadDir    string        `env:"UPLOAD_DIR" envDefault:"./public/uploads"`
	MaxUploadMB  int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	ListCacheTTL time.Duration `env:"LIST_CACHE_TTL" envDefault:"30s"`

	Debug bool `env:"DEBUG"`

	// 未设置 SESSION_SECRET 时为 true，启动时打印警告
	InsecureSecret bool `env:"-"`
}

// Load reads .env, then the environment, then command line flags; later
// sources win.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("lostfound", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP 监听端口")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "数据库连接串 (mongodb://, postgres://, sqlite:)")
	fs.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "图片上传目录")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "开发模式日志")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = defaultSessionSecret
		cfg.InsecureSecret = true
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}
	return cfg, nil
}

// MaxUploadBytes 上传大小上限（字节）
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
