package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/intunekit/hydrator/internal/adapters/graph"
	"github.com/intunekit/hydrator/internal/adapters/templates"
	"github.com/intunekit/hydrator/internal/config"
	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
	"github.com/intunekit/hydrator/internal/core/service"
	"github.com/intunekit/hydrator/internal/errors"
	"github.com/intunekit/hydrator/internal/log"
	"github.com/intunekit/hydrator/internal/ownership"
	jsonreport "github.com/intunekit/hydrator/internal/reporting/json"
	"github.com/intunekit/hydrator/internal/reporting/markdown"
	"github.com/intunekit/hydrator/internal/reporting/text"
	"github.com/intunekit/hydrator/internal/resources"
)

const clientSecretEnvVar = "HYDRATOR_TENANT_CLIENTSECRET"

func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	// The secret never lives in the config file. main loads .env before we
	// get here, so the environment is the single source.
	if cfg.Tenant.ClientSecret == "" {
		cfg.Tenant.ClientSecret = os.Getenv(clientSecretEnvVar)
	}

	if err := validateConfig(ctx, cfg, logger); err != nil {
		return nil, err
	}

	enabledKinds, err := cfg.EnabledKinds()
	if err != nil {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, err.Error(),
			fmt.Sprintf("Known kinds: %s", kindNames()))
	}

	credential, err := graph.NewCredential(cfg.Tenant.AuthMode, cfg.Tenant.ID, cfg.Tenant.ClientID, cfg.Tenant.ClientSecret)
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Authenticating to tenant %s (mode: %s)", cfg.Tenant.ID, cfg.Tenant.AuthMode)

	graphLog := logger.WithFields(map[string]any{"component": "graph"})
	var clientOpts []graph.Option
	if cfg.Settings.Graph.MaxAttempts > 0 {
		clientOpts = append(clientOpts, graph.WithMaxAttempts(cfg.Settings.Graph.MaxAttempts))
	}
	if cfg.Settings.Graph.RetryBase > 0 {
		clientOpts = append(clientOpts, graph.WithRetryBase(cfg.Settings.Graph.RetryBase))
	}
	client := graph.NewClient(credential, graphLog, clientOpts...)

	registry := service.NewKindRegistry()
	for _, kindCfg := range resources.All() {
		if err := registry.Register(kindCfg); err != nil {
			return nil, err
		}
	}
	logger.Debugf(ctx, "Registered %d resource kinds", len(resources.All()))

	reporters, err := buildReporters(cfg, logger)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.Settings.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Settings.RequestInterval), 1)
	}

	owner := ownership.NewChecker(cfg.Run.Marker)
	run := domain.RunContext{
		RunID:          uuid.NewString(),
		TenantID:       cfg.Tenant.ID,
		DryRun:         cfg.Run.DryRun,
		ForceUpdate:    cfg.Run.Force,
		RemoveExisting: cfg.Run.Remove,
		Marker:         owner.Marker(),
		StartedAt:      time.Now(),
	}

	loader := templates.NewLoader(cfg.Templates.Dir, cfg.Templates.Recursive,
		logger.WithFields(map[string]any{"component": "templates"}))

	reconciler := service.NewReconciler(client, owner, limiter,
		logger.WithFields(map[string]any{"component": "reconciler"}))

	engine, err := service.NewEngine(registry, loader, client, reconciler, reporters,
		logger, run, enabledKinds)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize hydration engine")
	}

	logger.Infof(ctx, "Application bootstrap complete (run: %s)", run.RunID)
	return NewApplication(engine, logger, cfg), nil
}

func validateConfig(ctx context.Context, cfg *config.Config, logger ports.Logger) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.StructCtx(ctx, cfg)
	if err == nil {
		logger.Debugf(ctx, "Configuration validated successfully")
		return nil
	}

	var errorDetails strings.Builder
	errorDetails.WriteString("Configuration validation failed:")
	validationErrors := err.(validator.ValidationErrors)
	for _, fe := range validationErrors {
		errorDetails.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	wrappedErr := errors.NewUserFacing(errors.CodeConfigValidation, errorDetails.String(), "Please check your configuration file or flags.")
	logger.Errorf(ctx, wrappedErr, "Configuration validation failed")
	return wrappedErr
}

func buildReporters(cfg *config.Config, logger ports.Logger) ([]ports.Reporter, error) {
	reporters := make([]ports.Reporter, 0, len(cfg.Settings.ReporterTypes))
	for _, reporterType := range cfg.Settings.ReporterTypes {
		reportLog := logger.WithFields(map[string]any{"component": "reporter", "type": reporterType})

		switch reporterType {
		case text.ReporterTypeText:
			textCfg := cfg.Settings.Reporter.Text
			if textCfg == nil {
				textCfg = &text.Config{}
			}
			r, err := text.NewReporter(*textCfg, reportLog)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize text reporter")
			}
			reporters = append(reporters, r)

		case jsonreport.ReporterTypeJSON:
			jsonCfg := cfg.Settings.Reporter.JSON
			if jsonCfg == nil {
				jsonCfg = &jsonreport.Config{}
			}
			r, err := jsonreport.NewReporter(*jsonCfg, reportLog)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
			}
			reporters = append(reporters, r)

		case markdown.ReporterTypeMarkdown:
			mdCfg := cfg.Settings.Reporter.Markdown
			if mdCfg == nil {
				mdCfg = &markdown.Config{}
			}
			r, err := markdown.NewReporter(*mdCfg, reportLog)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize Markdown reporter")
			}
			reporters = append(reporters, r)

		default:
			return nil, errors.NewUserFacing(errors.CodeConfigValidation,
				fmt.Sprintf("unsupported reporter type: %s", reporterType),
				"Supported: text, json, markdown")
		}
	}

	if len(reporters) == 0 {
		r, err := text.NewReporter(text.Config{}, logger.WithFields(map[string]any{"component": "reporter", "type": text.ReporterTypeText}))
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize text reporter")
		}
		reporters = append(reporters, r)
	}
	return reporters, nil
}

func kindNames() string {
	names := make([]string, 0, len(domain.AllKinds()))
	for _, k := range domain.AllKinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
