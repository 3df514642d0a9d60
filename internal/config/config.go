package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bench    BenchConfig    `yaml:"bench"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
}

type BenchConfig struct {
	Rows       int `yaml:"rows"`
	Iterations int `yaml:"iterations"`
	Rounds     int `yaml:"rounds"`

	// JSON 键里的引擎标签（如 pandasAvgMs），和配对引擎的结果做 diff 用
	Engine  string `yaml:"engine"`
	JSONOut string `yaml:"json_out"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	// 运行历史入库开关：关闭时完全不连数据库，JSON 文件仍是唯一权威工件
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Charset  string `yaml:"charset"`
}

func DefaultConfig() *Config {
	return &Config{
		Bench: BenchConfig{
			Rows:       25000,
			Iterations: 8,
			Rounds:     3,
			Engine:     "pandas",
			JSONOut:    "bench/results/pandas.json",
		},
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    3306,
			Charset: "utf8mb4",
		},
	}
}

// LoadConfig 读取配置文件并覆盖内置默认值。
// 基准工具不强制要求配置文件：文件不存在时直接用默认配置。
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return config, nil
}
