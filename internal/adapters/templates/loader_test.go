package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/log"
)

func groupKindConfig() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindGroup,
		Endpoints:      []string{"/v1.0/groups"},
		RequiredFields: []string{"membershipRule"},
		MarkerField:    "description",
		TemplateSubdir: "groups",
		WrapperKeys:    []string{"groups"},
	}
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_MissingDirectoryIsNotFatal(t *testing.T) {
	loader := NewLoader(t.TempDir(), false, log.NewNop())

	defs, failures := loader.Load(context.Background(), groupKindConfig())
	assert.Empty(t, defs)
	assert.Empty(t, failures)
}

func TestLoader_SingleObjectFile(t *testing.T) {
	base := t.TempDir()
	writeTemplate(t, filepath.Join(base, "groups"), "all-windows.json",
		`{"displayName":"All Windows Devices","membershipRule":"(device.deviceOSType -eq \"Windows\")","description":"baseline"}`)

	loader := NewLoader(base, false, log.NewNop())
	defs, failures := loader.Load(context.Background(), groupKindConfig())

	require.Len(t, defs, 1)
	assert.Empty(t, failures)
	assert.Equal(t, "All Windows Devices", defs[0].DisplayName)
	assert.Equal(t, domain.KindGroup, defs[0].Kind)
	assert.Equal(t, "baseline", defs[0].Payload["description"])
}

func TestLoader_WrapperFile(t *testing.T) {
	base := t.TempDir()
	writeTemplate(t, filepath.Join(base, "groups"), "batch.json",
		`{"groups":[
			{"displayName":"G1","membershipRule":"r1"},
			{"displayName":"G2","membershipRule":"r2"}
		]}`)

	loader := NewLoader(base, false, log.NewNop())
	defs, failures := loader.Load(context.Background(), groupKindConfig())

	require.Len(t, defs, 2)
	assert.Empty(t, failures)
	assert.Equal(t, "G1", defs[0].DisplayName)
	assert.Equal(t, "G2", defs[1].DisplayName)
}

func TestLoader_BadJSONFailsFileAndContinues(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "groups")
	writeTemplate(t, dir, "a-good.json", `{"displayName":"A","membershipRule":"r"}`)
	writeTemplate(t, dir, "b-broken.json", `{"displayName": "B",`)
	writeTemplate(t, dir, "c-good.json", `{"displayName":"C","membershipRule":"r"}`)

	loader := NewLoader(base, false, log.NewNop())
	defs, failures := loader.Load(context.Background(), groupKindConfig())

	require.Len(t, defs, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, domain.OutcomeFailed, failures[0].Outcome)
	assert.Equal(t, "b-broken.json", failures[0].Name)
	assert.Contains(t, failures[0].Detail, "invalid JSON")
}

func TestLoader_MissingRequiredFieldIsRejected(t *testing.T) {
	base := t.TempDir()
	writeTemplate(t, filepath.Join(base, "groups"), "batch.json",
		`{"groups":[
			{"displayName":"Valid","membershipRule":"r"},
			{"displayName":"No Rule"},
			{"membershipRule":"orphan rule"}
		]}`)

	loader := NewLoader(base, false, log.NewNop())
	defs, failures := loader.Load(context.Background(), groupKindConfig())

	require.Len(t, defs, 1)
	assert.Equal(t, "Valid", defs[0].DisplayName)

	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Detail, "membershipRule")
	assert.Contains(t, failures[1].Detail, "display name")
}

func TestLoader_RecursiveWalk(t *testing.T) {
	base := t.TempDir()
	writeTemplate(t, filepath.Join(base, "groups"), "top.json", `{"displayName":"Top","membershipRule":"r"}`)
	writeTemplate(t, filepath.Join(base, "groups", "nested"), "deep.json", `{"displayName":"Deep","membershipRule":"r"}`)

	flat := NewLoader(base, false, log.NewNop())
	defs, _ := flat.Load(context.Background(), groupKindConfig())
	assert.Len(t, defs, 1)

	recursive := NewLoader(base, true, log.NewNop())
	defs, _ = recursive.Load(context.Background(), groupKindConfig())
	assert.Len(t, defs, 2)
}

func TestLoader_AlternateNameField(t *testing.T) {
	base := t.TempDir()
	writeTemplate(t, filepath.Join(base, "compliance"), "linux.json",
		`{"name":"Linux Baseline","technologies":"linuxMdm","settings":[]}`)

	cfg := domain.KindConfig{
		Kind:           domain.KindCompliancePolicy,
		Endpoints:      []string{"/beta/deviceManagement/compliancePolicies"},
		NameFields:     []string{"displayName", "name"},
		MarkerField:    "description",
		TemplateSubdir: "compliance",
	}

	loader := NewLoader(base, false, log.NewNop())
	defs, failures := loader.Load(context.Background(), cfg)

	require.Len(t, defs, 1)
	assert.Empty(t, failures)
	assert.Equal(t, "Linux Baseline", defs[0].DisplayName)
}
