package config

import (
	"fmt"
	"time"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/log"
	jsonreport "github.com/intunekit/hydrator/internal/reporting/json"
	"github.com/intunekit/hydrator/internal/reporting/markdown"
	"github.com/intunekit/hydrator/internal/reporting/text"
)

type Config struct {
	Settings  SettingsConfig  `mapstructure:"settings"`
	Tenant    TenantConfig    `mapstructure:"tenant" validate:"required"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Run       RunConfig       `mapstructure:"run"`
}

type SettingsConfig struct {
	LogLevel  log.Level  `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat log.Format `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	// RequestInterval is the minimum spacing between mutating Graph calls.
	RequestInterval time.Duration   `mapstructure:"request_interval" validate:"min=0"`
	Graph           GraphSettings   `mapstructure:"graph"`
	ReporterTypes   []string        `mapstructure:"reporters" validate:"dive,oneof=text json markdown"`
	Reporter        ReporterConfigs `mapstructure:"reporter_config"`
}

// GraphSettings bound the retry behavior on throttled or unavailable Graph
// endpoints. Zero values fall back to the client defaults.
type GraphSettings struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=0"`
	RetryBase   time.Duration `mapstructure:"retry_base" validate:"min=0"`
}

type TenantConfig struct {
	ID       string `mapstructure:"id" validate:"required"`
	ClientID string `mapstructure:"client_id" validate:"required"`
	AuthMode string `mapstructure:"auth_mode" validate:"required,oneof=client_secret device_code cli"`
	// ClientSecret is never read from the config file; it comes from the
	// HYDRATOR_TENANT_CLIENTSECRET environment variable or a .env file.
	ClientSecret string `mapstructure:"clientsecret"`
}

type TemplatesConfig struct {
	Dir       string `mapstructure:"dir"`
	Recursive bool   `mapstructure:"recursive"`
}

type RunConfig struct {
	DryRun bool `mapstructure:"dry_run"`
	Force  bool `mapstructure:"force"`
	Remove bool `mapstructure:"remove"`
	// Marker overrides the ownership tag stamped into created objects.
	Marker string   `mapstructure:"marker"`
	Kinds  []string `mapstructure:"kinds"`
}

type ReporterConfigs struct {
	Text     *text.Config       `mapstructure:"text,omitempty"`
	JSON     *jsonreport.Config `mapstructure:"json,omitempty"`
	Markdown *markdown.Config   `mapstructure:"markdown,omitempty"`
}

// EnabledKinds resolves the run.kinds names against the managed kind set.
// An empty list means every kind.
func (c *Config) EnabledKinds() ([]domain.ResourceKind, error) {
	if len(c.Run.Kinds) == 0 {
		return nil, nil
	}

	known := make(map[domain.ResourceKind]struct{})
	for _, k := range domain.AllKinds() {
		known[k] = struct{}{}
	}

	kinds := make([]domain.ResourceKind, 0, len(c.Run.Kinds))
	for _, name := range c.Run.Kinds {
		kind := domain.ResourceKind(name)
		if _, ok := known[kind]; !ok {
			return nil, fmt.Errorf("unknown resource kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:        log.LevelInfo,
			LogFormat:       log.FormatText,
			RequestInterval: 100 * time.Millisecond,
			ReporterTypes:   []string{text.ReporterTypeText},
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false},
			},
		},
		Tenant: TenantConfig{
			AuthMode: "client_secret",
		},
		Templates: TemplatesConfig{
			Dir:       "templates",
			Recursive: false,
		},
		Run: RunConfig{},
	}
}
