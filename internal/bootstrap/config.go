package bootstrap

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"negachess/internal/engine"
)

const envPrefix = "CHESS"

type Config struct {
	Addr         string        `mapstructure:"ADDR"`
	WebDir       string        `mapstructure:"WEB_DIR"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	Strategy     string        `mapstructure:"STRATEGY"`
	Depth        int           `mapstructure:"DEPTH"`
	UseCache     bool          `mapstructure:"USE_CACHE"`
	PersistCache bool          `mapstructure:"PERSIST_CACHE"`
	Reductions   bool          `mapstructure:"REDUCTIONS"`
	Shuffle      bool          `mapstructure:"SHUFFLE"`
	Seed         int64         `mapstructure:"SEED"`
	RedisUrl     string        `mapstructure:"REDIS_URL"`
	BookTTL      time.Duration `mapstructure:"BOOK_TTL"`
	TickInterval time.Duration `mapstructure:"TICK_INTERVAL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADDR", "127.0.0.1:2888")
	v.SetDefault("WEB_DIR", "web")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STRATEGY", engine.StrategyNegamax)
	v.SetDefault("DEPTH", engine.DefaultConfig().MaxDepth)
	v.SetDefault("USE_CACHE", true)
	v.SetDefault("PERSIST_CACHE", false)
	v.SetDefault("REDUCTIONS", true)
	v.SetDefault("SHUFFLE", false)
	v.SetDefault("SEED", 0)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("BOOK_TTL", 24*time.Hour)
	// 60 帧
	v.SetDefault("TICK_INTERVAL", time.Second/60)
}

// Setup 读取配置文件（可为空），再用 CHESS_ 前缀的环境变量覆盖
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfgPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}

// Engine 搜索相关的配置
func (c *Config) Engine() engine.Config {
	return engine.Config{
		MaxDepth:     c.Depth,
		UseCache:     c.UseCache,
		PersistCache: c.PersistCache,
		Reductions:   c.Reductions,
		Shuffle:      c.Shuffle,
		Seed:         c.Seed,
	}
}
