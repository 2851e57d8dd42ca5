package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Mail     MailConfig     `mapstructure:"mail"`
	Log      LogConfig      `mapstructure:"log"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// MailConfig SMTP 邮件配置（EMAIL 提醒渠道）
type MailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JobsConfig 定时任务配置
//
// cron 表达式仅作用于 cmd/server 的调度绑定；任务本体不感知节奏，
// 由调度层按表达式触发注册表中的任务。
type JobsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Timezone string `mapstructure:"timezone"` // 调度器时区（IANA 标识）

	GenerationDaysAhead     int `mapstructure:"generation_days_ahead"`      // 实例生成视野（天）
	InstanceRetentionDays   int `mapstructure:"instance_retention_days"`    // 历史实例保留（天）
	SoftDeleteRetentionDays int `mapstructure:"soft_delete_retention_days"` // 软删除事件保留（天）
	ReminderRetentionDays   int `mapstructure:"reminder_retention_days"`    // 已发送提醒保留（天）
	HistoryRetentionDays    int `mapstructure:"history_retention_days"`     // 事件历史保留（天）

	GenerationCron  string `mapstructure:"generation_cron"`
	ReminderCron    string `mapstructure:"reminder_cron"`
	CleanupCron     string `mapstructure:"cleanup_cron"`
	OldInstanceCron string `mapstructure:"old_instance_cron"`
	VerifyCron      string `mapstructure:"verify_cron"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "chrono_union")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("mail.smtp_port", 587)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.timezone", "UTC")
	v.SetDefault("jobs.generation_days_ahead", 90)
	v.SetDefault("jobs.instance_retention_days", 30)
	v.SetDefault("jobs.soft_delete_retention_days", 30)
	v.SetDefault("jobs.reminder_retention_days", 30)
	v.SetDefault("jobs.history_retention_days", 365)
	v.SetDefault("jobs.generation_cron", "0 2 * * *")    // 每日 02:00
	v.SetDefault("jobs.reminder_cron", "*/5 * * * *")    // 每 5 分钟
	v.SetDefault("jobs.cleanup_cron", "0 3 * * 0")       // 每周日 03:00
	v.SetDefault("jobs.old_instance_cron", "30 3 * * *") // 每日 03:30
	v.SetDefault("jobs.verify_cron", "0 4 * * *")        // 每日 04:00

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
	v.SetEnvPrefix("CHRONO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Jobs.GenerationDaysAhead <= 0 {
		return fmt.Errorf("配置校验失败: jobs.generation_days_ahead 必须为正数")
	}
	if c.Jobs.InstanceRetentionDays < 0 || c.Jobs.SoftDeleteRetentionDays < 0 ||
		c.Jobs.ReminderRetentionDays < 0 || c.Jobs.HistoryRetentionDays < 0 {
		return fmt.Errorf("配置校验失败: jobs 各保留天数不能为负数")
	}
	return nil
}
