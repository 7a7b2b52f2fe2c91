// Package download implements the download-resolution endpoint: it validates
// the requested identifier, resolves it through the metadata index under the
// caller's access-control predicate, and delivers the artifact either by
// streaming it from local storage or by redirecting to a presigned object
// storage URL.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/GoCodeAlone/datagateway/auth"
	"github.com/GoCodeAlone/datagateway/identifier"
	"github.com/GoCodeAlone/datagateway/index"
	"github.com/GoCodeAlone/datagateway/metrics"
	"github.com/GoCodeAlone/datagateway/middleware"
	"github.com/GoCodeAlone/datagateway/storage"
)

// Resolver resolves an identifier to an artifact record, or nil when no
// visible record matches.
type Resolver interface {
	Resolve(ctx context.Context, id, predicate string) (*index.Record, error)
}

// URLIssuer issues a presigned retrieval URL for an object storage path.
type URLIssuer interface {
	PresignGet(ctx context.Context, filePath string) (string, error)
}

// FileOpener opens a local artifact for streaming and reports its size.
type FileOpener interface {
	Open(path string) (io.ReadCloser, int64, error)
}

// Handler serves GET /download?id=<identifier>.
type Handler struct {
	log        *slog.Logger
	resolver   Resolver
	issuer     URLIssuer
	files      FileOpener
	predicates auth.PredicateSource
	collector  *metrics.Collector
}

// NewHandler creates the download handler. issuer may be nil when no object
// storage is configured; s3-backed records then fail as a server error.
// collector may be nil to disable metrics.
func NewHandler(resolver Resolver, issuer URLIssuer, files FileOpener,
	predicates auth.PredicateSource, log *slog.Logger, collector *metrics.Collector) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if predicates == nil {
		predicates = auth.Static{}
	}
	return &Handler{
		log:        log,
		resolver:   resolver,
		issuer:     issuer,
		files:      files,
		predicates: predicates,
		collector:  collector,
	}
}

// RegisterRoutes registers the download endpoint on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/download", h.HandleDownload)
}

// HandleDownload runs the resolution pipeline for one request: validate,
// resolve, classify, then redirect or stream.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		h.record("none", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if err := identifier.Validate(id); err != nil {
		h.writeError(ctx, w, "none", fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	predicate, err := h.predicates.Predicate(r)
	if err != nil {
		h.writeError(ctx, w, "none", fmt.Errorf("%w: %w", ErrUnauthenticated, err))
		return
	}

	start := time.Now()
	rec, err := h.resolver.Resolve(ctx, id, predicate)
	if h.collector != nil {
		h.collector.ObserveResolveDuration(time.Since(start))
	}
	if err != nil {
		h.writeError(ctx, w, "none", fmt.Errorf("%w: %w", ErrQueryFailure, err))
		return
	}
	if rec == nil {
		h.writeError(ctx, w, "none", ErrNotAuthorizedOrMissing)
		return
	}

	backend := storage.Classify(rec.FileLocation)
	h.log.Info("resolved artifact",
		"requestId", middleware.RequestID(ctx),
		"id", id,
		"location", rec.FileLocation,
		"backend", backend.String(),
	)

	switch backend {
	case storage.BackendS3:
		h.redirectToObjectStore(ctx, w, r, rec)
	default:
		h.streamLocal(ctx, w, rec)
	}
}

// redirectToObjectStore issues a presigned URL for the artifact and sends the
// client there; the bytes never pass through this service.
func (h *Handler) redirectToObjectStore(ctx context.Context, w http.ResponseWriter, r *http.Request, rec *index.Record) {
	if h.issuer == nil {
		h.writeError(ctx, w, "s3", fmt.Errorf("%w: object storage not configured", ErrStorageFailure))
		return
	}

	url, err := h.issuer.PresignGet(ctx, rec.FilePath())
	if err != nil {
		h.writeError(ctx, w, "s3", fmt.Errorf("%w: %w", ErrStorageFailure, err))
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	h.record("s3", http.StatusTemporaryRedirect)
}

// streamLocal opens the artifact on the local filesystem and copies it to the
// response. The stream is closed on every exit path; close failures are
// logged and never change the outcome already sent to the client.
func (h *Handler) streamLocal(ctx context.Context, w http.ResponseWriter, rec *index.Record) {
	rc, size, err := h.files.Open(rec.FilePath())
	if err != nil {
		h.writeError(ctx, w, "local", fmt.Errorf("%w: %w", ErrLocalIO, err))
		return
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			h.log.Warn("failed to close artifact stream",
				"requestId", middleware.RequestID(ctx), "id", rec.ID, "error", cerr)
		}
	}()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.EffectiveName()))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are already out; an interrupted copy almost always means
		// the client went away, which is not a server error.
		h.log.Warn("artifact stream aborted",
			"requestId", middleware.RequestID(ctx), "id", rec.ID, "error", err)
	}
	h.record("local", http.StatusOK)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, backend string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("download request failed",
			"requestId", middleware.RequestID(ctx), "status", status, "error", err)
	} else {
		h.log.Info("download request rejected",
			"requestId", middleware.RequestID(ctx), "status", status, "error", err)
	}

	http.Error(w, clientMessage(err), status)
	h.record(backend, status)
}

func (h *Handler) record(backend string, status int) {
	if h.collector != nil {
		h.collector.RecordDownload(backend, strconv.Itoa(status))
	}
}
