package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapplot/internal/sample"
	"github.com/leapstack-labs/leapplot/internal/state"
	"github.com/leapstack-labs/leapplot/pkg/core"
	"github.com/leapstack-labs/leapplot/pkg/validate"
)

// ReasonInvalidValues marks an equation that compiles but is NaN at the probe point.
const ReasonInvalidValues = "invalid_values"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Reason: reason})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse validates an equation. Rejections are reported in the body
// with status 200; only malformed requests get a 4xx.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}
	if req.Latex == "" {
		req.Latex = r.URL.Query().Get("latex")
	}

	resp := ParseResponse{LatexCleaned: strings.TrimSpace(req.Latex)}
	prog, err := s.compile(r.Context(), req.Latex)
	switch {
	case err != nil:
		resp.Error = validate.Describe(err)
		resp.Reason = core.ReasonOf(err)
	default:
		if _, ok := prog.Probe(); !ok {
			resp.Error = "Equation produces invalid values"
			resp.Reason = ReasonInvalidValues
			break
		}
		resp.Valid = true
		resp.Canonical = prog.Canonical
		resp.Pretty = prog.Pretty()
	}

	s.record(r.Context(), req.Latex, prog, resp.Reason, err)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	rng := sample.DefaultRange(s.sampling)
	if req.XMin != nil {
		rng.XMin = *req.XMin
	}
	if req.XMax != nil {
		rng.XMax = *req.XMax
	}
	if req.NumPoints != nil {
		rng.Points = *req.NumPoints
	}
	rng.YMin, rng.YMax = req.YMin, req.YMax
	if err := rng.Validate(s.sampling); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	prog, err := s.compile(r.Context(), req.Latex)
	s.record(r.Context(), req.Latex, prog, core.ReasonOf(err), err)
	if err != nil {
		writeError(w, http.StatusBadRequest, validate.Describe(err), core.ReasonOf(err))
		return
	}

	series, err := sample.Sample(prog, rng)
	if errors.Is(err, sample.ErrNoValidSamples) {
		s.metrics.RecordSample(r.Context(), rng.Points, 0)
		writeError(w, http.StatusBadRequest, err.Error(), ReasonInvalidValues)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	s.metrics.RecordSample(r.Context(), len(series.X), series.Finite)

	writeJSON(w, http.StatusOK, SampleResponse{
		Canonical: prog.Canonical,
		X:         series.X,
		Y:         nullable(series.Y),
		YMin:      series.YMin,
		YMax:      series.YMax,
		Finite:    series.Finite,
	})
}

func (s *Server) handleExamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.examples)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled", "")
		return
	}

	limit := state.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "")
			return
		}
		limit = n
	}

	records, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	out := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		out = append(out, HistoryEntry{
			ID:        rec.ID,
			Latex:     rec.Raw,
			Canonical: rec.Canonical,
			Valid:     rec.Valid,
			Reason:    rec.Reason,
			Source:    string(rec.Source),
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	readings, err := s.provider.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, readings)
}
