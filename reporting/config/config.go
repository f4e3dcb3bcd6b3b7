package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/logger"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"REPORTING_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"REPORTING_HTTP_PORT" default:"8081"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"15s"`
	WriteTimeout time.Duration
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Kafka    kafka.Config `yaml:"kafka"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
