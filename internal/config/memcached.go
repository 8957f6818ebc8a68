package config

import "time"

const defaultCacheTTLSeconds = 300

type MemcachedConfig struct {
	NodeHosts  []string `yaml:"hosts"`
	TTLSeconds int      `yaml:"ttl-seconds"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}

func (s *MemcachedConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

func (s *MemcachedConfig) Enabled() bool {
	return len(s.NodeHosts) > 0
}
