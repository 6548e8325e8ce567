package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env-default:"dev"`
	StoragePath string `yaml:"storage_path" env-required:"true"`
	LogPath     string `yaml:"log_path" env-default:""`
	HTTPServer  `yaml:"http_server"`
	Auth        Auth `yaml:"auth"`
	Blob        Blob `yaml:"blob"`
	GPT         GPT  `yaml:"gpt"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type Auth struct {
	Secret   string        `yaml:"secret" env:"AUTH_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env-default:"30m"`
}

type Blob struct {
	Endpoint  string `yaml:"endpoint" env:"BLOB_ENDPOINT"`
	Region    string `yaml:"region" env-default:"us-east-1"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key" env:"BLOB_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"BLOB_SECRET_KEY"`
}

type GPT struct {
	Endpoint string `yaml:"endpoint" env:"GPT_ENDPOINT"`
	APIKey   string `yaml:"api_key" env:"GPT_API_KEY"`
	Model    string `yaml:"model"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	if _, err := os.Stat(path); err != nil {
		log.Panicf("error opening config file: %v", err)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		log.Panicf("error reading config file: %v", err)
	}

	return &cfg
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "sets path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	return path
}
