// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/amd-enterprise-ai/airm/pkg/sql"
	"gopkg.in/yaml.v2"
)

const (
	envConfigFile   = "AIRM_CONFIG_FILE"
	envHTTPPort     = "AIRM_HTTP_PORT"
	envMessagingURL = "AIRM_MESSAGING_URL"
	envClusterID    = "AIRM_CLUSTER_ID"

	defaultConfigFile = "config.yaml"
	defaultHTTPPort   = 8080
)

type Config struct {
	HTTPPort    int                `json:"httpPort" yaml:"httpPort"`
	AutoMigrate bool               `json:"autoMigrate" yaml:"autoMigrate"`
	Log         log.Config         `json:"log" yaml:"log"`
	Database    sql.DatabaseConfig `json:"database" yaml:"database"`
	Messaging   MessagingConfig    `json:"messaging" yaml:"messaging"`
	Middleware  MiddlewareConfig   `json:"middleware" yaml:"middleware"`
	Cluster     ClusterConfig      `json:"cluster" yaml:"cluster"`
	AIM         *AIMConfig         `json:"aim" yaml:"aim"`

	// HealthWindowSeconds is how long a cluster heartbeat stays fresh before
	// the cluster is reported unhealthy and submissions are rejected.
	HealthWindowSeconds int `json:"healthWindowSeconds" yaml:"healthWindowSeconds"`
}

// MessagingConfig points both binaries at the shared RabbitMQ virtual host.
type MessagingConfig struct {
	URL string `json:"url" yaml:"url"`
}

// ClusterConfig identifies the dispatcher's cluster and the API it reports to.
type ClusterConfig struct {
	ID                       string `json:"id" yaml:"id"`
	APIBaseURL               string `json:"apiBaseUrl" yaml:"apiBaseUrl"`
	KubeConfigPath           string `json:"kubeConfigPath" yaml:"kubeConfigPath"`
	HeartbeatIntervalSeconds int    `json:"heartbeatIntervalSeconds" yaml:"heartbeatIntervalSeconds"`
}

type MiddlewareConfig struct {
	EnableLogging bool `json:"enableLogging" yaml:"enableLogging"`
}

type AIMConfig struct {
	CatalogURL         string `json:"catalogUrl" yaml:"catalogUrl"`
	ReadTimeoutSeconds int    `json:"readTimeoutSeconds" yaml:"readTimeoutSeconds"`
	CacheTTLSeconds    int    `json:"cacheTtlSeconds" yaml:"cacheTtlSeconds"`
}

func (c *Config) GetHTTPPort() int {
	if c.HTTPPort == 0 {
		return defaultHTTPPort
	}
	return c.HTTPPort
}

func (c *Config) GetHealthWindow() time.Duration {
	if c.HealthWindowSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.HealthWindowSeconds) * time.Second
}

func (c *ClusterConfig) GetHeartbeatInterval() time.Duration {
	if c.HeartbeatIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HeartbeatIntervalSeconds) * time.Second
}

func (c *MiddlewareConfig) IsLoggingEnabled() bool {
	return c.EnableLogging
}

func (a *AIMConfig) GetReadTimeout() time.Duration {
	if a == nil || a.ReadTimeoutSeconds <= 0 {
		return 1800 * time.Second
	}
	return time.Duration(a.ReadTimeoutSeconds) * time.Second
}

func (a *AIMConfig) GetCacheTTL() time.Duration {
	if a == nil || a.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

// LoadConfig reads the YAML config file named by AIRM_CONFIG_FILE (default
// ./config.yaml) and applies environment overrides on top.
func LoadConfig() (*Config, error) {
	path := os.Getenv(envConfigFile)
	if path == "" {
		path = defaultConfigFile
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.NewError().WithCode(errors.CodeInitializeError).
				WithMessagef("failed to read config file %s", path).WithError(err)
		}
		log.Warnf("Config file %s not found, relying on environment variables", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewError().WithCode(errors.CodeInitializeError).
			WithMessagef("failed to parse config file %s", path).WithError(err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envHTTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTPPort = port
		} else {
			log.Warnf("Ignoring invalid %s=%q", envHTTPPort, v)
		}
	}
	if v := os.Getenv(envMessagingURL); v != "" {
		cfg.Messaging.URL = v
	}
	if v := os.Getenv(envClusterID); v != "" {
		cfg.Cluster.ID = v
	}
	if v := os.Getenv("AIRM_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("AIRM_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
}

func (c *Config) Validate() error {
	if c.Messaging.URL == "" {
		return fmt.Errorf("messaging.url is required")
	}
	return nil
}
