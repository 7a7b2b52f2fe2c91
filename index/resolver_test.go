package index

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type fakeQuerier struct {
	result  *QueryResult
	err     error
	lastReq QueryRequest
	calls   int
}

func (f *fakeQuerier) Query(_ context.Context, q QueryRequest) (*QueryResult, error) {
	f.calls++
	f.lastReq = q
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestResolver_Resolve(t *testing.T) {
	q := &fakeQuerier{result: &QueryResult{
		NumFound: 1,
		Docs: []Doc{
			{FileLocation: "/data/vol1", FileName: "scan.svs"},
		},
	}}
	r := NewResolver(q, slog.Default())

	rec, err := r.Resolve(context.Background(), "case-42", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec == nil {
		t.Fatal("expected record, got nil")
	}
	if rec.FileLocation != "/data/vol1" || rec.FileName != "scan.svs" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.EffectiveName() != "scan.svs" {
		t.Errorf("EffectiveName = %q, want scan.svs", rec.EffectiveName())
	}
	if rec.FilePath() != "/data/vol1/scan.svs" {
		t.Errorf("FilePath = %q", rec.FilePath())
	}

	if q.lastReq.Query != `id:"case-42"` {
		t.Errorf("query = %q", q.lastReq.Query)
	}
	if len(q.lastReq.FilterQueries) != 0 {
		t.Errorf("empty predicate must not add a filter query, got %v", q.lastReq.FilterQueries)
	}
	wantFields := []string{"FileLocation", "FileName", "name"}
	if len(q.lastReq.Fields) != len(wantFields) {
		t.Fatalf("fields = %v, want %v", q.lastReq.Fields, wantFields)
	}
	for i, f := range wantFields {
		if q.lastReq.Fields[i] != f {
			t.Errorf("fields[%d] = %q, want %q", i, q.lastReq.Fields[i], f)
		}
	}
}

func TestResolver_Resolve_AttachesPredicate(t *testing.T) {
	q := &fakeQuerier{result: &QueryResult{}}
	r := NewResolver(q, slog.Default())

	_, err := r.Resolve(context.Background(), "case-42", "OwnerPrincipal:(cn=ops)")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(q.lastReq.FilterQueries) != 1 || q.lastReq.FilterQueries[0] != "OwnerPrincipal:(cn=ops)" {
		t.Errorf("filter queries = %v", q.lastReq.FilterQueries)
	}
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	q := &fakeQuerier{result: &QueryResult{NumFound: 0}}
	r := NewResolver(q, slog.Default())

	rec, err := r.Resolve(context.Background(), "unknown", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestResolver_Resolve_QueryError(t *testing.T) {
	q := &fakeQuerier{err: errors.New("connection refused")}
	r := NewResolver(q, slog.Default())

	rec, err := r.Resolve(context.Background(), "case-42", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if rec != nil {
		t.Errorf("record must be nil on error, got %+v", rec)
	}
}

func TestResolver_Resolve_DisplayNameOverride(t *testing.T) {
	q := &fakeQuerier{result: &QueryResult{
		NumFound: 1,
		Docs: []Doc{
			{FileLocation: "/data/vol1", FileName: "scan.svs", Name: []string{"friendly.svs"}},
		},
	}}
	r := NewResolver(q, slog.Default())

	rec, err := r.Resolve(context.Background(), "case-42", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec.DisplayName != "friendly.svs" {
		t.Errorf("DisplayName = %q", rec.DisplayName)
	}
	if rec.EffectiveName() != "friendly.svs" {
		t.Errorf("EffectiveName = %q", rec.EffectiveName())
	}
	if rec.FilePath() != "/data/vol1/friendly.svs" {
		t.Errorf("FilePath = %q", rec.FilePath())
	}
}

func TestResolver_Resolve_LastMatchWins(t *testing.T) {
	q := &fakeQuerier{result: &QueryResult{
		NumFound: 2,
		Docs: []Doc{
			{FileLocation: "/data/old", FileName: "a.svs"},
			{FileLocation: "/data/new", FileName: "b.svs"},
		},
	}}
	r := NewResolver(q, slog.Default())

	rec, err := r.Resolve(context.Background(), "dup", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec.FileLocation != "/data/new" || rec.FileName != "b.svs" {
		t.Errorf("expected last match to win, got %+v", rec)
	}
}

func TestResolver_Resolve_MissingLocationFields(t *testing.T) {
	q := &fakeQuerier{result: &QueryResult{
		NumFound: 1,
		Docs:     []Doc{{FileName: "scan.svs"}},
	}}
	r := NewResolver(q, slog.Default())

	_, err := r.Resolve(context.Background(), "broken", "")
	if err == nil {
		t.Fatal("expected error for record without location, got nil")
	}
}
