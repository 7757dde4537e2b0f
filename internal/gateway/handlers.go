package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
	"github.com/invincible-jha/aumai-toolcanon/internal/telemetry"
	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

// handleCanonicalize canonicalizes a JSON tool document. The source format
// may be forced with the ?source_format query parameter.
func (g *Gateway) handleCanonicalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := telemetry.Tracer().Start(r.Context(), "gateway.canonicalize")
		defer span.End()

		doc, ok := decodeBody(w, r)
		if !ok {
			return
		}

		res, ok := g.canonicalizeRequest(w, r, doc)
		if !ok {
			return
		}

		span.SetAttributes(
			attribute.String("tool.name", res.Tool.Name),
			attribute.String("tool.source_format", string(res.SourceFormatDetected)),
			attribute.Int("tool.warnings", len(res.Warnings)),
		)

		g.recordResult(res)
		g.hub.Publish(Event{
			Type:         "tool.canonicalized",
			Tool:         res.Tool.Name,
			SourceFormat: string(res.SourceFormatDetected),
			Warnings:     len(res.Warnings),
			At:           time.Now().UTC(),
		})

		writeJSON(w, http.StatusOK, res)
	}
}

// handleDetect reports the detected format and the per-format confidence
// scores for a document, without canonicalizing it.
func (g *Gateway) handleDetect() http.HandlerFunc {
	type detectResponse struct {
		Detected   canon.SourceFormat             `json:"detected"`
		Confidence map[canon.SourceFormat]float64 `json:"confidence"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := decodeBody(w, r)
		if !ok {
			return
		}

		detector := g.canon.Detector()
		writeJSON(w, http.StatusOK, detectResponse{
			Detected:   detector.Detect(doc),
			Confidence: detector.Confidence(doc),
		})
	}
}

// handleEmit converts a canonical tool (request body) into the target
// provider format named in the URL.
func (g *Gateway) handleEmit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := telemetry.Tracer().Start(r.Context(), "gateway.emit")
		defer span.End()

		target := chi.URLParam(r, "target")
		span.SetAttributes(attribute.String("emit.target", target))

		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
			return
		}

		tool, err := canon.DecodeTool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		out, err := canon.Emit(tool, target)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		g.metrics.RecordEmit(target)
		writeJSON(w, http.StatusOK, out)
	}
}

// handleCreateTool canonicalizes a document and saves the result in the
// registry. Tools without a name cannot be stored.
func (g *Gateway) handleCreateTool() http.HandlerFunc {
	type createResponse struct {
		Stored   registry.StoredTool `json:"stored"`
		Warnings []string            `json:"warnings"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !g.requireStore(w) {
			return
		}

		doc, ok := decodeBody(w, r)
		if !ok {
			return
		}

		res, ok := g.canonicalizeRequest(w, r, doc)
		if !ok {
			return
		}
		g.recordResult(res)

		if res.Tool.Name == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "tool has no name and cannot be stored",
				"warnings": res.Warnings,
			})
			return
		}

		stored, err := g.store.Save(r.Context(), res.Tool)
		if err != nil {
			g.logger.Error("save tool failed", "tool", res.Tool.Name, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save failed"})
			return
		}

		g.hub.Publish(Event{
			Type:         "tool.saved",
			Tool:         stored.Tool.Name,
			SourceFormat: string(stored.Tool.SourceFormat),
			Warnings:     len(res.Warnings),
			At:           time.Now().UTC(),
		})

		writeJSON(w, http.StatusCreated, createResponse{Stored: stored, Warnings: res.Warnings})
	}
}

// handleListTools lists stored tools with optional ?limit and ?offset.
func (g *Gateway) handleListTools() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.requireStore(w) {
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		tools, err := g.store.List(r.Context(), limit, offset)
		if err != nil {
			g.logger.Error("list tools failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
			return
		}

		if tools == nil {
			tools = []registry.StoredTool{}
		}
		writeJSON(w, http.StatusOK, tools)
	}
}

// handleGetTool fetches one stored tool by name.
func (g *Gateway) handleGetTool() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.requireStore(w) {
			return
		}

		name := chi.URLParam(r, "name")
		stored, err := g.store.Get(r.Context(), name)
		if errors.Is(err, registry.ErrToolNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "tool not found"})
			return
		}
		if err != nil {
			g.logger.Error("get tool failed", "tool", name, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get failed"})
			return
		}

		writeJSON(w, http.StatusOK, stored)
	}
}

// handleDeleteTool removes one stored tool by name.
func (g *Gateway) handleDeleteTool() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.requireStore(w) {
			return
		}

		name := chi.URLParam(r, "name")
		err := g.store.Delete(r.Context(), name)
		if errors.Is(err, registry.ErrToolNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "tool not found"})
			return
		}
		if err != nil {
			g.logger.Error("delete tool failed", "tool", name, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "delete failed"})
			return
		}

		g.hub.Publish(Event{Type: "tool.deleted", Tool: name, At: time.Now().UTC()})
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSearchTools runs a full-text search over names and descriptions.
func (g *Gateway) handleSearchTools() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.requireStore(w) {
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 20
		}

		tools, err := g.store.SearchName(r.Context(), query, limit)
		if err != nil {
			g.logger.Error("search tools failed", "query", query, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}

		if tools == nil {
			tools = []registry.StoredTool{}
		}
		writeJSON(w, http.StatusOK, tools)
	}
}

// canonicalizeRequest runs the engine over a decoded document, honoring a
// forced ?source_format when present. A false return means a response was
// already written.
func (g *Gateway) canonicalizeRequest(w http.ResponseWriter, r *http.Request, doc any) (canon.Result, bool) {
	if forced := r.URL.Query().Get("source_format"); forced != "" {
		format, err := canon.ParseSourceFormat(forced)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return canon.Result{}, false
		}
		return g.canon.CanonicalizeAs(doc, format), true
	}
	return g.canon.Canonicalize(doc), true
}

// recordResult feeds one canonicalization outcome into the metrics.
func (g *Gateway) recordResult(res canon.Result) {
	fellBack := res.SourceFormatDetected == canon.FormatRaw
	g.metrics.RecordCanonicalization(string(res.SourceFormatDetected), len(res.Warnings), fellBack)
}

// requireStore writes a 503 when the registry is not configured.
func (g *Gateway) requireStore(w http.ResponseWriter) bool {
	if g.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "registry not configured"})
		return false
	}
	return true
}

// decodeBody decodes the request body as an arbitrary JSON document. A
// false return means an error response was already written.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, bool) {
	var doc any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return nil, false
	}
	return doc, true
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
