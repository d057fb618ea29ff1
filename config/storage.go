package config

import "fmt"

// StorageConfig selects the run-history backend
type StorageConfig struct {
	Backend string `hcl:"backend"`
	Path    string `hcl:"path,optional"`
}

func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case "memory":
	case "sqlite":
		if s.Path == "" {
			return fmt.Errorf("path is required for sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s (expected 'memory' or 'sqlite')", s.Backend)
	}
	return nil
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `hcl:"addr,optional"`
}

func (s *ServerConfig) ListenAddr() string {
	if s == nil || s.Addr == "" {
		return ":8080"
	}
	return s.Addr
}
