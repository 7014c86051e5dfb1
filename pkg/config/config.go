package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Kline struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"kline"`

	Import struct {
		ChunkSize int `yaml:"chunk_size"`
	} `yaml:"import"`

	API struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"api"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	overrideFromEnv(&config)

	applyDefaults(&config)

	return &config, nil
}

// Default 无配置文件时的缺省配置
func Default() *Config {
	var config Config
	overrideFromEnv(&config)
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	if config.App.Name == "" {
		config.App.Name = "StockDeck"
	}
	if config.API.Port == "" {
		config.API.Port = "8887"
	}
	if config.Database.Path == "" {
		config.Database.Path = "data/stock_data.db"
	}
	if config.Import.ChunkSize <= 0 {
		config.Import.ChunkSize = 50
	}
	if config.Kline.BaseURL == "" {
		config.Kline.BaseURL = "https://ifzq.gtimg.cn"
	}
	if config.Kline.Timeout <= 0 {
		config.Kline.Timeout = 10 * time.Second
	}
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	if env := os.Getenv("APP_NAME"); env != "" {
		config.App.Name = env
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}
	if env := os.Getenv("DB_PATH"); env != "" {
		config.Database.Path = env
	}
	if env := os.Getenv("KLINE_BASE_URL"); env != "" {
		config.Kline.BaseURL = env
	}
	if env := os.Getenv("IMPORT_CHUNK_SIZE"); env != "" {
		if size, err := strconv.Atoi(env); err == nil && size > 0 {
			config.Import.ChunkSize = size
		}
	}
	if env := os.Getenv("PORT"); env != "" {
		config.API.Port = env
	}
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
