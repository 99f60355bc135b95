package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string       `yaml:"env" env-default:"local"`
	HTTP   HTTPConfig   `yaml:"http"`
	Redis  RedisConf    `yaml:"redis"`
	GitHub GitHubConfig `yaml:"github"`
	Admin  AdminConfig  `yaml:"admin"`
	Upload UploadConfig `yaml:"upload"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

type GitHubConfig struct {
	Token  string `yaml:"token" env:"GITHUB_TOKEN"`
	Repo   string `yaml:"repo" env:"GITHUB_REPO"`
	Branch string `yaml:"branch" env:"GITHUB_BRANCH" env-default:"main"`
}

type AdminConfig struct {
	Key         string        `yaml:"key" env:"ADMIN_KEY"`
	TokenSecret string        `yaml:"token_secret" env:"ADMIN_TOKEN_SECRET" env-default:"change-me"`
	TokenTTL    time.Duration `yaml:"token_ttl" env-default:"12h"`
}

type UploadConfig struct {
	MaxSize  int64         `yaml:"max_size" env-default:"10485760"`
	Cooldown time.Duration `yaml:"cooldown" env-default:"3s"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
