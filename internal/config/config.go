package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string             `yaml:"env" env-default:"local"`
	DSN          string             `yaml:"dsn" env:"DSN" env-required:"true"`
	TokenSecret  string             `yaml:"token_secret" env:"TOKEN_SECRET" env-required:"true"`
	SessionKey   string             `yaml:"session_key" env:"SESSION_KEY" env-default:"datespark-session"`
	TokenTTL     time.Duration      `yaml:"token_ttl" env-default:"15m"`
	HTTP         HTTPConfig         `yaml:"http"`
	PhotoStorage PhotoStorageConfig `yaml:"photo_storage"`
	Redis        RedisConfig        `yaml:"redis"`
	AMQP         AMQPConfig         `yaml:"amqp"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type PhotoStorageConfig struct {
	// Driver selects the image host implementation: "local" or "s3".
	Driver  string `yaml:"driver" env-default:"local"`
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
	MaxSize int64  `yaml:"max_size" env-default:"10485760"`

	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Region    string `yaml:"region" env-default:"us-east-1"`
	UseSSL    bool   `yaml:"use_ssl" env-default:"false"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type AMQPConfig struct {
	// Empty URL disables the moderation event publisher.
	URL   string `yaml:"url" env:"AMQP_URL"`
	Queue string `yaml:"queue" env-default:"photo_moderation_events"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
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
