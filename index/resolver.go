package index

import (
	"context"
	"fmt"
	"log/slog"
)

// Querier is the slice of the Solr client the resolver needs. It exists so
// tests can substitute a double for the real client.
type Querier interface {
	Query(ctx context.Context, q QueryRequest) (*QueryResult, error)
}

// Resolver turns an artifact identifier plus an access-control predicate
// into the location record for the single matching artifact.
type Resolver struct {
	client Querier
	log    *slog.Logger
}

// NewResolver creates a Resolver backed by the given query client.
func NewResolver(client Querier, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{client: client, log: log}
}

// Resolve queries the index for the artifact with the given identifier,
// attaching predicate as an additional filter when non-empty. It returns
// (nil, nil) when no document matches, whether the artifact is absent or the
// predicate excluded it; callers must not distinguish the two cases.
//
// The index is expected to enforce identifier uniqueness. If it does not,
// the last matching document wins, matching the historical behavior of the
// data it serves; the anomaly is logged as a data-integrity warning.
func (r *Resolver) Resolve(ctx context.Context, id, predicate string) (*Record, error) {
	q := QueryRequest{
		Query:  `id:"` + id + `"`,
		Fields: []string{fieldFileLocation, fieldFileName, fieldName},
	}
	if predicate != "" {
		q.FilterQueries = append(q.FilterQueries, predicate)
	}

	result, err := r.client.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identifier %q: %w", id, err)
	}

	if len(result.Docs) == 0 {
		return nil, nil
	}
	if len(result.Docs) > 1 {
		r.log.Warn("multiple index records match identifier",
			"id", id, "matches", len(result.Docs))
	}

	doc := result.Docs[len(result.Docs)-1]
	if doc.FileLocation == "" || doc.FileName == "" {
		return nil, fmt.Errorf("index record for %q is missing location fields", id)
	}

	rec := &Record{
		ID:           id,
		FileLocation: doc.FileLocation,
		FileName:     doc.FileName,
	}
	if len(doc.Name) > 0 {
		rec.DisplayName = doc.Name[0]
	}
	return rec, nil
}
