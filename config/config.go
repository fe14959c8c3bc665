package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/logger"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	"github.com/Astemirdum/library-rental/pkg/stripe"
	"github.com/Astemirdum/library-rental/pkg/telegram"
)

type HTTPServer struct {
	Host         string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

// Business holds loan policy knobs. FineMultiplierDays is the punitive day
// multiplier applied to overdue returns instead of the standard loan period.
type Business struct {
	BorrowingDays      int    `envconfig:"BORROWING_DAYS" default:"14"`
	FineMultiplierDays int    `envconfig:"FINE_MULTIPLIER_DAYS" default:"28"`
	OverdueCronSpec    string `envconfig:"OVERDUE_CRON_SPEC" default:"0 9 * * *"`
}

type Config struct {
	Server   HTTPServer
	Database postgres.Config
	Kafka    kafka.Config
	Stripe   stripe.Config
	Telegram telegram.Config
	Business Business
	Log      logger.Log
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = timeout
	}
}
