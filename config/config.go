package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Export    ExportConfig    `mapstructure:"export"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port          int        `mapstructure:"port"`
	BodyLimit     int64      `mapstructure:"body_limit"` // 请求体上限（字节）
	CORS          CORSConfig `mapstructure:"cors"`
	TimetableDays []string   `mapstructure:"timetable_days"` // 课表网格展示的星期
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// UpstreamConfig 远端排课 API 配置
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 控制台会话 Token 配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResolverConfig 课程名称解析器配置
type ResolverConfig struct {
	RetryFailed    bool `mapstructure:"retry_failed"`    // false: 失败结果也缓存，本视图内不再重试
	MaxConcurrency int  `mapstructure:"max_concurrency"` // 0 表示不限制
}

// CacheConfig 公共课表缓存配置
type CacheConfig struct {
	PublicTimetableTTL time.Duration `mapstructure:"public_timetable_ttl"`
}

// RateLimitConfig 公共接口限流配置
type RateLimitConfig struct {
	PublicLimit  int           `mapstructure:"public_limit"`
	PublicWindow time.Duration `mapstructure:"public_window"`
}

// ExportConfig 课表导出配置
type ExportConfig struct {
	TimeZone string `mapstructure:"time_zone"` // ICS 事件时区，IANA 名称
	ICSWeeks int    `mapstructure:"ics_weeks"` // 每周重复次数
}

// Location 解析导出时区
func (c *ExportConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.timetable_days", []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"})

	v.SetDefault("upstream.base_url", "http://localhost:5000/api")
	v.SetDefault("upstream.timeout", "15s")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "") // 需注册键名，AutomaticEnv 才能在 Unmarshal 时生效
	v.SetDefault("auth.access_token_ttl", "12h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("resolver.retry_failed", false)
	v.SetDefault("resolver.max_concurrency", 0)

	v.SetDefault("cache.public_timetable_ttl", "5m")

	v.SetDefault("rate_limit.public_limit", 60)
	v.SetDefault("rate_limit.public_window", "1m")

	v.SetDefault("export.time_zone", "Local")
	v.SetDefault("export.ics_weeks", 16)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("TTC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return fmt.Errorf("配置校验失败: upstream.base_url 不能为空")
	}
	if c.Resolver.MaxConcurrency < 0 {
		return fmt.Errorf("配置校验失败: resolver.max_concurrency 不能为负数")
	}
	if _, err := c.Export.Location(); err != nil {
		return fmt.Errorf("配置校验失败: export.time_zone 无效: %w", err)
	}
	return nil
}
