package service

import (
	"fmt"
	"sync"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/errors"
)

// KindRegistry holds the configured resource kinds in hydration order.
type KindRegistry struct {
	mu      sync.RWMutex
	order   []domain.ResourceKind
	configs map[domain.ResourceKind]domain.KindConfig
}

func NewKindRegistry() *KindRegistry {
	return &KindRegistry{
		configs: make(map[domain.ResourceKind]domain.KindConfig),
	}
}

func (r *KindRegistry) Register(cfg domain.KindConfig) error {
	if cfg.Kind == "" {
		return errors.New(errors.CodeInternal, "kind config has empty kind")
	}
	if len(cfg.Endpoints) == 0 {
		return errors.New(errors.CodeInternal, fmt.Sprintf("kind %s has no endpoints", cfg.Kind))
	}
	if cfg.MarkerField == "" {
		return errors.New(errors.CodeInternal, fmt.Sprintf("kind %s has no marker field", cfg.Kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[cfg.Kind]; exists {
		return errors.New(errors.CodeKindAlreadyRegistered, fmt.Sprintf("kind %s already registered", cfg.Kind))
	}
	r.configs[cfg.Kind] = cfg
	r.order = append(r.order, cfg.Kind)
	return nil
}

func (r *KindRegistry) Get(kind domain.ResourceKind) (domain.KindConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.configs[kind]
	if !exists {
		return domain.KindConfig{}, errors.New(errors.CodeKindNotRegistered, fmt.Sprintf("kind %s not registered", kind))
	}
	return cfg, nil
}

// Configs returns the registered kind configs in registration order.
func (r *KindRegistry) Configs() []domain.KindConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.KindConfig, 0, len(r.order))
	for _, kind := range r.order {
		out = append(out, r.configs[kind])
	}
	return out
}
