package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/buildinfo"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/scene"
)

// =============================================================================
// Requests and Responses
// =============================================================================

// Request is the body of POST /v1/solve and POST /v1/animate. Exactly one
// of Scene and TOML is set.
type Request struct {
	Scene json.RawMessage `json:"scene,omitempty"`
	TOML  string          `json:"toml,omitempty"`
	pipeline.Options
}

// SolveResponse is the body returned by POST /v1/solve. Artifacts hold
// text formats as is and PNG as base64.
type SolveResponse struct {
	RequestID string            `json:"request_id"`
	SceneHash string            `json:"scene_hash"`
	Layout    *pipeline.Layout  `json:"layout"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
	Cached    CacheInfo         `json:"cached"`
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	Solve  bool `json:"solve"`
	Render bool `json:"render"`
}

// AnimateResponse is the body returned by POST /v1/animate.
type AnimateResponse struct {
	RequestID string              `json:"request_id"`
	SceneHash string              `json:"scene_hash"`
	Animation *pipeline.Animation `json:"animation"`
	Cached    bool                `json:"cached"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string    `json:"request_id,omitempty"`
	Error     ErrorBody `json:"error"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	req, doc, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	opts := req.Options
	opts.Logger = s.logger

	hash, err := s.runner.StoreScene(ctx, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.Execute(ctx, doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := SolveResponse{
		RequestID: RequestID(ctx),
		SceneHash: hash,
		Layout:    result.Layout,
		Artifacts: make(map[string]string, len(result.Artifacts)),
		Cached:    CacheInfo{Solve: result.CacheInfo.SolveHit, Render: result.CacheInfo.RenderHit},
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatPNG {
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
			continue
		}
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	req, doc, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	opts := req.Options
	opts.Logger = s.logger

	hash, err := s.runner.StoreScene(ctx, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, hit, err := s.runner.AnimateWithCacheInfo(ctx, doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AnimateResponse{
		RequestID: RequestID(ctx),
		SceneHash: hash,
		Animation: a,
		Cached:    hit,
	})
}

// handleGraph renders the dependency graph of a scene stored by an earlier
// solve or animate request. Query: scene (hash, required), format (dot,
// svg or json; default json), detailed (bool), direct (bool).
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hash := q.Get("scene")
	if hash == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "missing scene hash"))
		return
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateGraphFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed, err := queryBool(q.Get("detailed"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	direct, err := queryBool(q.Get("direct"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	doc, err := s.runner.LoadScene(ctx, hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := pipeline.Graph(ctx, doc, pipeline.Options{Direct: direct, Logger: s.logger})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := pipeline.RenderGraph(ctx, snap, []string{format}, detailed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format {
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func decodeRequest(w http.ResponseWriter, r *http.Request) (*Request, *scene.Document, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}

	var (
		doc *scene.Document
		err error
	)
	switch {
	case len(req.Scene) > 0 && req.TOML != "":
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "set either scene or toml, not both")
	case len(req.Scene) > 0:
		doc, err = scene.Parse(req.Scene, scene.FormatJSON)
	case req.TOML != "":
		doc, err = scene.Parse([]byte(req.TOML), scene.FormatTOML)
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "missing scene")
	}
	if err != nil {
		return nil, nil, err
	}
	return &req, doc, nil
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
		msg = fmt.Sprintf("internal error (request %s)", RequestID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{
		RequestID: RequestID(r.Context()),
		Error:     ErrorBody{Code: string(code), Message: msg},
	})
}
