package config

const defaultServiceName = "expense-ledger"

type TracingConfig struct {
	Service   string `yaml:"service-name"`
	Agent     string `yaml:"agent-host-port"`
	IsEnabled bool   `yaml:"enabled"`
}

func (s *TracingConfig) ServiceName() string {
	return s.Service
}

func (s *TracingConfig) AgentHostPort() string {
	return s.Agent
}

func (s *TracingConfig) Enabled() bool {
	return s.IsEnabled
}
