package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFile    = "data/config.yaml"
	configEnvPath = "LEDGER_CONFIG"
)

type config struct {
	App       AppConfig       `yaml:"app"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

type Service struct {
	config config
}

// New reads the file named by LEDGER_CONFIG, or data/config.yaml.
func New() (*Service, error) {
	path := os.Getenv(configEnvPath)
	if path == "" {
		path = configFile
	}
	return NewFromFile(path)
}

func NewFromFile(path string) (*Service, error) {
	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return Parse(rawYAML)
}

func Parse(rawYAML []byte) (*Service, error) {
	s := &Service{config: defaults()}

	err := yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}
	if err = s.config.App.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid app config")
	}
	if err = s.config.Storage.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid storage config")
	}

	return s, nil
}

func defaults() config {
	return config{
		App: AppConfig{
			LabelLocale: defaultLocale,
			Top:         defaultPlotTop,
			Bottom:      defaultPlotBottom,
			Dir:         defaultExportDir,
		},
		Storage: StorageConfig{
			Kind:       BackendSQLite,
			SQLiteFile: defaultSQLitePath,
		},
		Memcached: MemcachedConfig{
			TTLSeconds: defaultCacheTTLSeconds,
		},
		Tracing: TracingConfig{
			Service: defaultServiceName,
		},
	}
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) Storage() *StorageConfig {
	return &s.config.Storage
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Tracing() *TracingConfig {
	return &s.config.Tracing
}
