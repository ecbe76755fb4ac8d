package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string         `yaml:"env" env:"ENV" env-default:"local"`
	DatabaseUrl    string         `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	DBMaxConns     int32          `yaml:"db_max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	Server         ServerConfig   `yaml:"rest"`
	JWT            JWTSecret      `yaml:"jwt"`
	Log            LogConfig      `yaml:"log"`
	Realtime       RealtimeConfig `yaml:"realtime"`
	ResyncInterval time.Duration  `yaml:"resync_interval" env:"RESYNC_INTERVAL" env-default:"5m"`
}

type ServerConfig struct {
	Port        string   `yaml:"port" env:"PORT" env-default:"8080"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

type JWTSecret struct {
	Secret string `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

// RealtimeConfig selects the change feed. Without a Redis address the API
// process listens to Postgres itself.
type RealtimeConfig struct {
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	EchoWindow    time.Duration `yaml:"echo_window" env:"ECHO_WINDOW" env-default:"5s"`
	Buffer        int           `yaml:"buffer" env:"REALTIME_BUFFER" env-default:"64"`
}

func MustLoad() *Config {
	path := fetchConfigPath()

	if path == "" {
		panic("Config file not found in path")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("Config file not found in path")
	}

	log.Printf("Loading config from %s", path)
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	var config Config
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &config, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "config path")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "./config/local.yaml"
	}

	return res
}
