package config

import "fmt"

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	defaultSQLitePath = "data/ledger.db"
)

type StorageConfig struct {
	Kind       string `yaml:"backend"`
	SQLiteFile string `yaml:"sqlite-path"`
}

func (s *StorageConfig) Backend() string {
	return s.Kind
}

func (s *StorageConfig) SQLitePath() string {
	return s.SQLiteFile
}

func (s *StorageConfig) validate() error {
	switch s.Kind {
	case BackendMemory, BackendSQLite, BackendPostgres:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.Kind)
}
