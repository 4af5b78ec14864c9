package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Inference InferenceConfig `mapstructure:"inference"`
	Emotion   EmotionConfig   `mapstructure:"emotion"`
	Retention RetentionConfig `mapstructure:"retention"`
	Bus       BusConfig       `mapstructure:"bus"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // local, production
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres
	DSN  string `mapstructure:"dsn"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InferenceConfig 本地文本生成服务（Ollama 协议）配置。
// 三个模型名分别用于在线聊天、日记摘要和日记改写两个阶段。
type InferenceConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ChatModel    string        `mapstructure:"chat_model"`
	SummaryModel string        `mapstructure:"summary_model"`
	DiaryModel   string        `mapstructure:"diary_model"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// EmotionConfig 情绪分类服务配置
type EmotionConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetentionConfig 消息保留清理配置
type RetentionConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// BusConfig 事件总线配置
type BusConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// Load 加载配置。
// 优先级 (低 → 高): 默认值 → 全局 ~/.echoquill/config.yaml → 项目本地 → 环境变量
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Layer 1: 全局配置 ~/.echoquill/config.yaml
	globalDir := filepath.Join(os.Getenv("HOME"), ".echoquill")
	v.AddConfigPath(globalDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read global config: %w", err)
		}
	}

	// Layer 2: 项目本地配置（叠加覆盖）
	for _, localDir := range []string{"./config", "."} {
		localPath := filepath.Join(localDir, "config.yaml")
		if _, err := os.Stat(localPath); err == nil {
			v2 := viper.New()
			v2.SetConfigFile(localPath)
			if err := v2.ReadInConfig(); err == nil {
				_ = v.MergeConfigMap(v2.AllSettings())
			}
			break
		}
	}

	// 环境变量覆盖
	v.SetEnvPrefix("ECHOQUILL")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	// Server 默认值
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "local")

	// Database 默认值
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "echoquill.db")

	// Log 默认值
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Inference 默认值 (Ollama 本地服务)
	v.SetDefault("inference.base_url", "http://localhost:11434")
	v.SetDefault("inference.chat_model", "llama3.2-friend:latest")
	v.SetDefault("inference.summary_model", "llama2")
	v.SetDefault("inference.diary_model", "llama2-diarist")
	v.SetDefault("inference.temperature", 0.7)
	v.SetDefault("inference.max_tokens", 500)
	v.SetDefault("inference.timeout", "120s")

	// Emotion 默认值 (本地分类服务)
	v.SetDefault("emotion.base_url", "http://localhost:5001")
	v.SetDefault("emotion.timeout", "15s")

	// Retention 默认值
	v.SetDefault("retention.sweep_interval", "10m")
	v.SetDefault("retention.ttl", "24h")

	// Bus 默认值
	v.SetDefault("bus.buffer_size", 256)
}
