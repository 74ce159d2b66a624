package service

import (
	"context"
	"fmt"

	"github.com/intunekit/hydrator/internal/core/domain"
)

type graphCall struct {
	Method   string
	Endpoint string
	ID       string
	Body     map[string]any
}

// fakeGraph records every call and serves canned list responses. Create
// returns sequential ids unless failCreate matches the body's display name;
// Delete fails for ids present in failDelete.
type fakeGraph struct {
	calls      []graphCall
	lists      map[string][]map[string]any
	listErrs   map[string]error
	failCreate map[string]error
	failDelete map[string]error
	nextID     int
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		lists:      map[string][]map[string]any{},
		listErrs:   map[string]error{},
		failCreate: map[string]error{},
		failDelete: map[string]error{},
	}
}

func (f *fakeGraph) List(ctx context.Context, endpoint string) ([]map[string]any, error) {
	f.calls = append(f.calls, graphCall{Method: "LIST", Endpoint: endpoint})
	if err := f.listErrs[endpoint]; err != nil {
		return nil, err
	}
	return f.lists[endpoint], nil
}

func (f *fakeGraph) Create(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	f.calls = append(f.calls, graphCall{Method: "POST", Endpoint: endpoint, Body: body})

	name, _ := body["displayName"].(string)
	if name == "" {
		name, _ = body["name"].(string)
	}
	if err := f.failCreate[name]; err != nil {
		return nil, err
	}

	f.nextID++
	return map[string]any{"id": fmt.Sprintf("created-%d", f.nextID), "displayName": name}, nil
}

func (f *fakeGraph) Delete(ctx context.Context, endpoint string, id string) error {
	f.calls = append(f.calls, graphCall{Method: "DELETE", Endpoint: endpoint, ID: id})
	return f.failDelete[id]
}

func (f *fakeGraph) mutatingCalls() []graphCall {
	var out []graphCall
	for _, c := range f.calls {
		if c.Method != "LIST" {
			out = append(out, c)
		}
	}
	return out
}

// fakeTemplates serves canned definitions and load failures per kind.
type fakeTemplates struct {
	defs     map[domain.ResourceKind][]domain.ResourceDefinition
	failures map[domain.ResourceKind][]domain.ResultRecord
}

func (f *fakeTemplates) Load(ctx context.Context, cfg domain.KindConfig) ([]domain.ResourceDefinition, []domain.ResultRecord) {
	return f.defs[cfg.Kind], f.failures[cfg.Kind]
}

// recordingReporter captures what the engine hands to the renderers.
type recordingReporter struct {
	run     domain.RunContext
	records []domain.ResultRecord
	summary domain.Summary
	called  int
}

func (r *recordingReporter) Report(ctx context.Context, run domain.RunContext, records []domain.ResultRecord, summary domain.Summary) error {
	r.called++
	r.run = run
	r.records = records
	r.summary = summary
	return nil
}
