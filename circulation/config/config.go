package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/kafka"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/logger"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"CIRCULATION_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"CIRCULATION_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"15s"`
	WriteTimeout time.Duration
}

// Engine holds the circulation policy knobs.
type Engine struct {
	LoanPeriod          time.Duration `yaml:"loanPeriod" envconfig:"LOAN_PERIOD" default:"336h"`
	PickupWindow        time.Duration `yaml:"pickupWindow" envconfig:"HOLD_PICKUP_WINDOW" default:"72h"`
	MaxRenewals         int           `yaml:"maxRenewals" envconfig:"LOAN_MAX_RENEWALS" default:"2"`
	ForceDirectCheckout bool          `yaml:"forceDirectCheckout" envconfig:"HOLD_FORCE_DIRECT_CHECKOUT" default:"false"`
	SweepInterval       time.Duration `yaml:"sweepInterval" envconfig:"HOLD_SWEEP_INTERVAL" default:"5m"`
	ReconcileInterval   time.Duration `yaml:"reconcileInterval" envconfig:"RECONCILE_INTERVAL" default:"1h"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Kafka    kafka.Config `yaml:"kafka"`
	Engine   Engine       `yaml:"engine"`
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
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
