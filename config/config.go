package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Overlay  OverlayConfig  `mapstructure:"overlay"`
	Manifest ManifestConfig `mapstructure:"manifest"`
	Verify   VerifyConfig   `mapstructure:"verify"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	LogFile      string        `mapstructure:"log_file"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	UploadDir    string   `mapstructure:"upload_dir"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

type PipelineConfig struct {
	DataDir    string   `mapstructure:"data_dir"`
	SourceMask string   `mapstructure:"source_mask"`
	Tiers      []string `mapstructure:"tiers"`
	Workers    int      `mapstructure:"workers"`
}

type OverlayConfig struct {
	Color     []int  `mapstructure:"color"`
	OutputDir string `mapstructure:"output_dir"`
}

type ManifestConfig struct {
	MaskDir    string `mapstructure:"mask_dir"`
	MaskSuffix string `mapstructure:"mask_suffix"`
}

type VerifyConfig struct {
	ChunkSize        int  `mapstructure:"chunk_size"`
	SampleLimit      int  `mapstructure:"sample_limit"`
	CleanupTempFiles bool `mapstructure:"cleanup_temp_files"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.log_file", "")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.upload_dir", "./uploads")
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/bmp", "image/tiff"})

	v.SetDefault("pipeline.data_dir", ".")
	v.SetDefault("pipeline.source_mask", "")
	v.SetDefault("pipeline.tiers", []string{"images", "images_2", "images_4", "images_8"})
	v.SetDefault("pipeline.workers", 4)

	v.SetDefault("overlay.color", []int{0, 0, 255})
	v.SetDefault("overlay.output_dir", "./colorized")

	v.SetDefault("manifest.mask_dir", "mask")
	v.SetDefault("manifest.mask_suffix", "_mask")

	v.SetDefault("verify.chunk_size", 65536)
	v.SetDefault("verify.sample_limit", 10)
	v.SetDefault("verify.cleanup_temp_files", true)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			UploadDir:    "./uploads",
			AllowedTypes: []string{"image/jpeg", "image/png", "image/bmp", "image/tiff"},
		},
		Pipeline: PipelineConfig{
			DataDir: ".",
			Tiers:   []string{"images", "images_2", "images_4", "images_8"},
			Workers: 4,
		},
		Overlay: OverlayConfig{
			Color:     []int{0, 0, 255},
			OutputDir: "./colorized",
		},
		Manifest: ManifestConfig{
			MaskDir:    "mask",
			MaskSuffix: "_mask",
		},
		Verify: VerifyConfig{
			ChunkSize:        65536,
			SampleLimit:      10,
			CleanupTempFiles: true,
		},
	}
}
