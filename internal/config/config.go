package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type RaffleConfig struct {
	Env string `yaml:"env" env:"RAFFLE_ENV" env-default:"local"`

	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	RaffleDB     `yaml:"raffle_db"`
	Storage      `yaml:"storage"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Reservation  `yaml:"reservation"`
	Units        `yaml:"units"`
	Metrics      `yaml:"metrics"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type RaffleDB struct {
	Dsn            string `yaml:"dsn" env:"RAFFLE_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"RAFFLE_MIGRATIONS_PATH"`
	MaxOpenConns   int    `yaml:"max_open_conns" env-default:"20"`
}

type Storage struct {
	// Driver is "postgres" or "memory".
	Driver string `yaml:"driver" env:"RAFFLE_STORAGE" env-default:"postgres"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"KAFKA_HOST"`
	Port    string `yaml:"port" env:"KAFKA_PORT"`
	Topic   string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"purchase-events"`
}

type Reservation struct {
	// TTL of a pending purchase; zero keeps reservations forever.
	TTL           time.Duration `yaml:"ttl" env:"RESERVATION_TTL" env-default:"0s"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"RESERVATION_SWEEP_INTERVAL" env-default:"1m"`
}

type Units struct {
	// MaxTotalNumbers caps the pool a single unit may generate; zero lifts the cap.
	MaxTotalNumbers int `yaml:"max_total_numbers" env:"RAFFLE_MAX_TOTAL_NUMBERS" env-default:"1000000"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path" env-default:"/metrics"`
}

func MustLoad() *RaffleConfig {
	cfg, err := Load(os.Getenv("RAFFLE_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Load reads the YAML file at path, or only the environment when path is
// empty.
func Load(path string) (*RaffleConfig, error) {
	var cfg RaffleConfig
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
