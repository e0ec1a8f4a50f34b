package auditflow

import (
	"context"
	"fmt"

	"github.com/viant/afs"

	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/meta"
	"github.com/viant/auditflow/service/notification"
	"github.com/viant/auditflow/service/workflow"
	"github.com/viant/auditflow/tracing"
)

// Config is a serialisable representation of the tracker configuration.
// The zero value of every section falls back to the package defaults.
type Config struct {
	Deadline     DeadlineConfig     `json:"deadline" yaml:"deadline"`
	Notification NotificationConfig `json:"notification" yaml:"notification"`
	Events       EventsConfig       `json:"events" yaml:"events"`
	Policy       *policy.Config     `json:"policy,omitempty" yaml:"policy,omitempty"`
	// Fixtures is the seed data URL; empty uses the built-in data set.
	Fixtures string `json:"fixtures,omitempty" yaml:"fixtures,omitempty"`
	// SkipSeed starts with empty collections.
	SkipSeed bool           `json:"skipSeed,omitempty" yaml:"skipSeed,omitempty"`
	Tracing  tracing.Config `json:"tracing" yaml:"tracing"`
}

type DeadlineConfig struct {
	BusinessDays int `json:"businessDays" yaml:"businessDays"`
}

type NotificationConfig struct {
	Limit int `json:"limit" yaml:"limit"`
}

type EventsConfig struct {
	Enabled     bool `json:"enabled" yaml:"enabled"`
	QueueBuffer int  `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Deadline:     DeadlineConfig{BusinessDays: workflow.DefaultDeadlineBusinessDays},
		Notification: NotificationConfig{Limit: notification.DefaultLimit},
	}
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Deadline.BusinessDays <= 0 {
		return fmt.Errorf("deadline.businessDays must be > 0")
	}
	if c.Notification.Limit < 0 {
		return fmt.Errorf("notification.limit must be >= 0")
	}
	if c.Events.QueueBuffer < 0 {
		return fmt.Errorf("events.queueBuffer must be >= 0")
	}
	if c.Policy != nil {
		if _, err := policy.New(c.Policy); err != nil {
			return fmt.Errorf("policy: %w", err)
		}
	}
	return nil
}

// LoadConfig reads a YAML or JSON config from URL over the defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "").Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
