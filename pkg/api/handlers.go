package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/roadnet/pkg/buildinfo"
	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/pipeline"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

// SpeedResponse is the body of GET /v1/speed.
type SpeedResponse struct {
	Speed  float64 `json:"speed"`
	Source string  `json:"source"`
}

// ProfileResponse is the body of GET /v1/profile.
type ProfileResponse struct {
	Fallback float64            `json:"fallback"`
	Speeds   map[string]float64 `json:"speeds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:   body,
		Source:  "request",
		Profile: s.profile,
		Format:  r.URL.Query().Get("format"),
		Refresh: refresh,
		Logger:  s.logger.With("request_id", RequestIDFromContext(r.Context())),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	contentType := "application/json"
	if r.URL.Query().Get("format") == pipeline.FormatGob {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Graph-Hash", result.GraphHash)
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.GraphHit))
	w.Header().Set("X-Vertices", strconv.Itoa(result.Stats.Build.Vertices))
	w.Header().Set("X-Edges", strconv.Itoa(result.Stats.Build.Edges))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Output)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateRenderFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:   body,
		Source:  "request",
		Profile: s.profile,
		Logger:  s.logger.With("request_id", RequestIDFromContext(r.Context())),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, hit, err := s.runner.Render(r.Context(), result.Graph, pipeline.RenderOptions{Format: format, Detailed: detailed})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	contentType := "image/svg+xml"
	if format == pipeline.FormatDOT {
		contentType = "text/vnd.graphviz"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	values := q["value"]

	var edge roadgraph.RawEdge
	switch len(values) {
	case 0:
		edge.SpeedLimit = roadgraph.NoSpeed()
	case 1:
		edge.SpeedLimit = roadgraph.ScalarSpeed(values[0])
	default:
		vs := make([]any, len(values))
		for i, v := range values {
			vs[i] = v
		}
		edge.SpeedLimit = roadgraph.ListSpeed(vs...)
	}
	if class := q.Get("class"); class != "" {
		edge.RoadClass = &class
	}

	res := roadgraph.ExplainSpeed(edge, s.profile)
	s.respondJSON(w, http.StatusOK, SpeedResponse{Speed: res.Speed, Source: res.Source.String()})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, ProfileResponse{
		Fallback: s.profile.Fallback(),
		Speeds:   s.profile.Speeds(),
	})
}

// readBody reads a bounded request body, answering the request itself when
// reading fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE",
				"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return nil, false
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return nil, false
	}
	if len(body) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "request body is empty"))
		return nil, false
	}
	return body, true
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// fail maps a pipeline error to its status code and error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	msg := message(err)
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= 500 {
		s.logger.Error("request failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		msg = "internal error"
	}
	s.respondError(w, status, code, msg)
}

// message is the user-facing text of err: the coded message plus its cause,
// without the code prefix.
func message(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, msg string) {
	s.respondJSON(w, status, ErrorResponse{Code: code, Message: msg})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}
