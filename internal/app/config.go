package app

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/flowgrid/modules/hclexpr"
	"github.com/vk/flowgrid/modules/javascript"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // .hcl/.json/.yaml file, or a directory of .hcl files

	LogFormat string
	LogLevel  string

	// Timeout bounds a single transform evaluation. Zero selects the
	// evaluator default.
	Timeout time.Duration
	// DefaultLanguage is used by transforms that do not name one.
	DefaultLanguage string

	HealthcheckPort int
	NotifyURL       string

	// Watch re-runs the pipeline whenever its file changes.
	Watch bool
	// Plan prints the execution order instead of running.
	Plan bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	switch cfg.DefaultLanguage {
	case "", javascript.Language, hclexpr.Language:
	default:
		return nil, fmt.Errorf("unknown transform language '%s': must be '%s' or '%s'", cfg.DefaultLanguage, javascript.Language, hclexpr.Language)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.NotifyURL != "" {
		u, err := url.Parse(cfg.NotifyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid notify URL '%s'", cfg.NotifyURL)
		}
	}

	return &cfg, nil
}
