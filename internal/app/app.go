package app

import (
	"context"

	"github.com/intunekit/hydrator/internal/config"
	"github.com/intunekit/hydrator/internal/core/ports"
)

// Application represents the assembled hydration run, ready to execute.
type Application struct {
	Engine ports.HydrationEngine
	Logger ports.Logger
	Config *config.Config
}

func NewApplication(engine ports.HydrationEngine, logger ports.Logger, cfg *config.Config) *Application {
	return &Application{
		Engine: engine,
		Logger: logger,
		Config: cfg,
	}
}

// Run executes the hydration run.
func (a *Application) Run(ctx context.Context) error {
	a.Logger.Infof(ctx, "Starting tenant hydration...")

	err := a.Engine.Run(ctx)

	if err != nil {
		a.Logger.Errorf(ctx, err, "Tenant hydration failed")
		return err
	}

	a.Logger.Infof(ctx, "Tenant hydration completed successfully")
	return nil
}
