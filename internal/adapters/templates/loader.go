// Package templates reads directories of JSON definition files into
// desired-state records. One bad file or one invalid object never aborts a
// load; it becomes a Failed record and the rest of the directory proceeds.
package templates

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Loader struct {
	baseDir   string
	recursive bool
	logger    ports.Logger
	now       func() time.Time
}

func NewLoader(baseDir string, recursive bool, logger ports.Logger) *Loader {
	return &Loader{
		baseDir:   baseDir,
		recursive: recursive,
		logger:    logger.WithFields(map[string]any{"component": "template_loader", "dir": baseDir}),
		now:       time.Now,
	}
}

// Load parses every JSON file in the kind's template directory. A missing
// directory is a warning, not an error: absence of one template category must
// not abort the whole run.
func (l *Loader) Load(ctx context.Context, cfg domain.KindConfig) ([]domain.ResourceDefinition, []domain.ResultRecord) {
	dir := filepath.Join(l.baseDir, cfg.TemplateSubdir)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		l.logger.Warnf(ctx, "Template directory %s not found, skipping kind %s", dir, cfg.Kind)
		return nil, nil
	}

	files, err := l.collectFiles(dir)
	if err != nil {
		l.logger.Warnf(ctx, "Failed to scan template directory %s: %v", dir, err)
		return nil, nil
	}

	var (
		defs     []domain.ResourceDefinition
		failures []domain.ResultRecord
	)

	for _, file := range files {
		if ctx.Err() != nil {
			return defs, failures
		}

		fileDefs, fileFailures := l.loadFile(ctx, cfg, file)
		defs = append(defs, fileDefs...)
		failures = append(failures, fileFailures...)
	}

	l.logger.Debugf(ctx, "Loaded %d definitions for kind %s (%d rejected)", len(defs), cfg.Kind, len(failures))
	return defs, failures
}

func (l *Loader) collectFiles(dir string) ([]string, error) {
	var files []string

	if l.recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func (l *Loader) loadFile(ctx context.Context, cfg domain.KindConfig, path string) ([]domain.ResourceDefinition, []domain.ResultRecord) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, []domain.ResultRecord{l.failure(cfg.Kind, path, fmt.Sprintf("cannot read file: %v", err))}
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, []domain.ResultRecord{l.failure(cfg.Kind, path, fmt.Sprintf("invalid JSON: %v", err))}
	}

	objects, err := extractObjects(parsed, cfg.WrapperKeys)
	if err != nil {
		return nil, []domain.ResultRecord{l.failure(cfg.Kind, path, err.Error())}
	}

	var (
		defs     []domain.ResourceDefinition
		failures []domain.ResultRecord
	)

	for _, obj := range objects {
		def, err := l.validate(cfg, obj, path)
		if err != nil {
			l.logger.Warnf(ctx, "Rejected definition in %s: %v", path, err)
			failures = append(failures, l.failure(cfg.Kind, path, err.Error()))
			continue
		}
		defs = append(defs, def)
	}

	return defs, failures
}

// extractObjects accepts the three accepted file shapes: a wrapper object
// ({"groups": [...]}), a bare array, or a bare single object.
func extractObjects(parsed any, wrapperKeys []string) ([]map[string]any, error) {
	switch v := parsed.(type) {
	case map[string]any:
		for _, key := range wrapperKeys {
			wrapped, ok := v[key]
			if !ok {
				continue
			}
			arr, ok := wrapped.([]any)
			if !ok {
				return nil, fmt.Errorf("wrapper key %q must hold an array", key)
			}
			return objectSlice(arr)
		}
		return []map[string]any{v}, nil
	case []any:
		return objectSlice(v)
	default:
		return nil, fmt.Errorf("template must be a JSON object or array, got %T", parsed)
	}
}

func objectSlice(arr []any) ([]map[string]any, error) {
	objects := make([]map[string]any, 0, len(arr))
	for i, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("array element %d is not a JSON object", i)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (l *Loader) validate(cfg domain.KindConfig, payload map[string]any, path string) (domain.ResourceDefinition, error) {
	name := cfg.DisplayNameOf(payload)
	if name == "" {
		return domain.ResourceDefinition{}, fmt.Errorf("definition is missing a display name")
	}

	for _, field := range cfg.RequiredFields {
		v, ok := payload[field]
		if !ok || v == nil {
			return domain.ResourceDefinition{}, fmt.Errorf("definition %q is missing required field %q", name, field)
		}
		if s, isString := v.(string); isString && s == "" {
			return domain.ResourceDefinition{}, fmt.Errorf("definition %q has empty required field %q", name, field)
		}
	}

	return domain.ResourceDefinition{
		Kind:        cfg.Kind,
		DisplayName: name,
		Payload:     payload,
		SourceFile:  path,
	}, nil
}

func (l *Loader) failure(kind domain.ResourceKind, path, detail string) domain.ResultRecord {
	return domain.ResultRecord{
		Timestamp: l.now(),
		Kind:      kind,
		Name:      filepath.Base(path),
		Outcome:   domain.OutcomeFailed,
		Detail:    detail,
	}
}
