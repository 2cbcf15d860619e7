package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/polyakovs/library-lending/library/internal/fine"
	"github.com/polyakovs/library-lending/library/internal/server"
	"github.com/polyakovs/library-lending/pkg/kafka"
	"github.com/polyakovs/library-lending/pkg/logger"
	"github.com/polyakovs/library-lending/pkg/postgres"
)

type Fine struct {
	DailyRate int64 `yaml:"dailyRate" envconfig:"FINE_DAILY_RATE" default:"10"`
}

type Config struct {
	Server   server.Config   `yaml:"server"`
	Database postgres.Config `yaml:"database"`
	Kafka    kafka.Config    `yaml:"kafka"`
	Fine     Fine            `yaml:"fine"`
	Log      logger.Log      `yaml:"log"`
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

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func (c *Config) FinePolicy() fine.Policy {
	return fine.NewPolicy(c.Fine.DailyRate)
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
