// Package configs loads the service configuration. Values are layered:
// built-in defaults, then an optional YAML file, then environment variables.
package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths lists the config files searched, first match wins.
var DefaultConfigPaths = []string{
	"configs/defaults.yaml",
	"defaults.yaml",
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreMysql  = "mysql"
)

type ServiceConfig struct {
	API              apiConfig              `koanf:"api"`
	Auth             AuthConfig             `koanf:"auth"`
	ServiceDiscovery serviceDiscoveryConfig `koanf:"serviceDiscovery"`
	DatabaseConfig   DatabaseConfig         `koanf:"database"`
	Kafka            KafkaConfig            `koanf:"kafka"`
	Jaeger           JaegerConfig           `koanf:"jaeger"`
	Prometheus       prometheusConfig       `koanf:"prometheus"`
	Processor        ProcessorConfig        `koanf:"processor"`
	Logging          LoggingConfig          `koanf:"logging"`
}

type apiConfig struct {
	Port       int    `koanf:"port"`
	RateLimit  int    `koanf:"rateLimit"`
	RateBurst  int    `koanf:"rateBurst"`
	CORSOrigin string `koanf:"corsOrigin"`
}

type AuthConfig struct {
	Secret   string        `koanf:"secret"`
	TokenTTL time.Duration `koanf:"tokenTTL"`
}

type serviceDiscoveryConfig struct {
	Consul consulConfig `koanf:"consul"`
}

type consulConfig struct {
	Address string `koanf:"address"`
}

type DatabaseConfig struct {
	Movies string      `koanf:"movies"`
	Users  string      `koanf:"users"`
	Mongo  MongoConfig `koanf:"mongo"`
	Mysql  MysqlConfig `koanf:"mysql"`
}

type MongoConfig struct {
	URI string `koanf:"uri"`
}

type MysqlConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"password"`
	Name string `koanf:"db_name"`
}

type KafkaConfig struct {
	Address string `koanf:"address"`
	Topic   string `koanf:"topic"`
	GroupID string `koanf:"groupID"`
}

type JaegerConfig struct {
	URL string `koanf:"url"`
}

type prometheusConfig struct {
	MetricsPort int `koanf:"metricsPort"`
}

type ProcessorConfig struct {
	SweepInterval time.Duration `koanf:"sweepInterval"`
}

type LoggingConfig struct {
	Development bool `koanf:"development"`
}

func defaultConfig() *ServiceConfig {
	return &ServiceConfig{
		API: apiConfig{
			Port:       3000,
			RateLimit:  100,
			RateBurst:  100,
			CORSOrigin: "*",
		},
		Auth: AuthConfig{
			Secret:   "superidol",
			TokenTTL: time.Hour,
		},
		DatabaseConfig: DatabaseConfig{
			Movies: StoreMongo,
			Users:  StoreMongo,
			Mongo:  MongoConfig{URI: "mongodb://localhost:27017/cineview"},
			Mysql:  MysqlConfig{Host: "localhost", Port: 3306, User: "root", Name: "cineview"},
		},
		Kafka: KafkaConfig{
			Topic:   "movie-events",
			GroupID: "cineview-users",
		},
	}
}

var envMappings = map[string]string{
	"port":            "api.port",
	"rate_limit":      "api.rateLimit",
	"rate_burst":      "api.rateBurst",
	"cors_origin":     "api.corsOrigin",
	"jwt_secret":      "auth.secret",
	"token_ttl":       "auth.tokenTTL",
	"consul_address":  "serviceDiscovery.consul.address",
	"movies_store":    "database.movies",
	"users_store":     "database.users",
	"mongo_uri":       "database.mongo.uri",
	"mysql_host":      "database.mysql.host",
	"mysql_port":      "database.mysql.port",
	"mysql_user":      "database.mysql.user",
	"mysql_password":  "database.mysql.password",
	"mysql_db_name":   "database.mysql.db_name",
	"kafka_address":   "kafka.address",
	"kafka_topic":     "kafka.topic",
	"kafka_group_id":  "kafka.groupID",
	"jaeger_url":      "jaeger.url",
	"metrics_port":    "prometheus.metricsPort",
	"sweep_interval":  "processor.sweepInterval",
	"log_development": "logging.development",
}

// envTransformFunc maps known environment variables to config paths and
// drops everything else.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load builds the service configuration.
func Load() (*ServiceConfig, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := &ServiceConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks the configuration for values the service cannot start with.
func (c *ServiceConfig) Validate() error {
	var errs []error
	if c.API.Port <= 0 {
		errs = append(errs, errors.New("api.port must be positive"))
	}
	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.tokenTTL must be positive"))
	}
	switch c.DatabaseConfig.Movies {
	case StoreMemory, StoreMongo:
	default:
		errs = append(errs, fmt.Errorf("database.movies: unsupported store %q", c.DatabaseConfig.Movies))
	}
	switch c.DatabaseConfig.Users {
	case StoreMemory, StoreMongo, StoreMysql:
	default:
		errs = append(errs, fmt.Errorf("database.users: unsupported store %q", c.DatabaseConfig.Users))
	}
	if c.Processor.SweepInterval < 0 {
		errs = append(errs, errors.New("processor.sweepInterval must not be negative"))
	}
	return errors.Join(errs...)
}
