package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lightning/pkg/buildinfo"
	"github.com/matzehuels/lightning/pkg/cache"
	"github.com/matzehuels/lightning/pkg/errors"
	lio "github.com/matzehuels/lightning/pkg/io"
	"github.com/matzehuels/lightning/pkg/pipeline"
	"github.com/matzehuels/lightning/pkg/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// jobRequest is the body of POST /v1/jobs. Settings given here override the
// server defaults field by field.
type jobRequest struct {
	Stack    json.RawMessage `json:"stack"`
	Settings json.RawMessage `json:"settings,omitempty"`
	Kernel   string          `json:"kernel,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	opts, input, err := s.decodeJob(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	job := store.NewJob(input, opts.Settings, opts.Kernel)
	if err := s.store.Create(r.Context(), job); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "create job"))
		return
	}
	s.logger.Info("job submitted", "id", job.ID, "layers", len(opts.Stack.Layers))

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if wait {
		s.run(r.Context(), job, opts)
		writeJSON(w, http.StatusCreated, job)
		return
	}

	snapshot := job.Clone()
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		ctx, cancel := s.detached(r.Context())
		defer cancel()
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
		s.run(ctx, job, opts)
	}()
	w.Header().Set("Location", "/v1/jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, snapshot)
}

// decodeJob parses and validates a submission. It returns the pipeline
// options and the canonical stack JSON to store.
func (s *Server) decodeJob(w http.ResponseWriter, r *http.Request) (pipeline.Options, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	var req jobRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxBytes *http.MaxBytesError
		if stderrors.As(err, &maxBytes) {
			return pipeline.Options{}, nil, err
		}
		return pipeline.Options{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Stack) == 0 {
		return pipeline.Options{}, nil, errors.New(errors.ErrCodeInvalidInput, "stack is required")
	}
	stack, err := lio.ReadJSON(bytes.NewReader(req.Stack))
	if err != nil {
		return pipeline.Options{}, nil, err
	}

	settings := s.opts.Settings
	if len(req.Settings) > 0 {
		if err := json.Unmarshal(req.Settings, &settings); err != nil {
			return pipeline.Options{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode settings")
		}
	}
	kernel := req.Kernel
	if kernel == "" {
		kernel = s.opts.Kernel
	}

	opts := pipeline.Options{Stack: stack, Settings: settings, Kernel: kernel}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, nil, err
	}

	var input bytes.Buffer
	if err := lio.WriteJSON(stack, &input); err != nil {
		return pipeline.Options{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "encode stack")
	}
	return opts, input.Bytes(), nil
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = min(n, maxListLimit)
	}
	jobs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "list jobs"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleGetLines(w http.ResponseWriter, r *http.Request) {
	job, err := s.finishedJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(job.Result)
}

func (s *Server) handleGetLayer(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := strings.TrimPrefix(path.Ext(file), ".")
	if ext != pipeline.FormatSVG && ext != pipeline.FormatPNG {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported preview format %q", ext))
		return
	}
	layer, err := strconv.Atoi(strings.TrimSuffix(file, path.Ext(file)))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidLayer, "invalid layer %q", file))
		return
	}
	scale, _ := strconv.ParseFloat(r.URL.Query().Get("scale"), 64)
	roots, _ := strconv.ParseBool(r.URL.Query().Get("roots"))

	job, err := s.finishedJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stack, err := lio.ReadJSON(bytes.NewReader(job.Input))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "stored stack"))
		return
	}
	lines, err := lio.ReadLines(bytes.NewReader(job.Result))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "stored lines"))
		return
	}

	opts := pipeline.Options{
		Stack:    stack,
		Settings: job.Settings,
		Kernel:   job.Kernel,
		Formats:  []string{ext},
		Layers:   []int{layer},
		Scale:    scale,
		Roots:    roots,
	}
	gen := &pipeline.Generation{
		GenerationHash: cache.Hash(job.Result),
		Layers:         lines,
		Settings:       job.Settings,
	}
	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), gen, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := "image/svg+xml"
	if ext == pipeline.FormatPNG {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(artifacts[pipeline.ArtifactName(ext, layer)])
}

// finishedJob loads the job named in the URL and checks that it succeeded.
func (s *Server) finishedJob(r *http.Request) (*store.Job, error) {
	job, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	switch job.Status {
	case store.StatusDone:
		return job, nil
	case store.StatusFailed:
		return nil, errors.New(errors.ErrCodeJobNotReady, "job %s failed: %s", job.ID, job.Error)
	}
	return nil, errors.New(errors.ErrCodeJobNotReady, "job %s is %s", job.ID, job.Status)
}

func (s *Server) validateJobID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := errors.ValidateJobID(chi.URLParam(r, "id")); err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// run executes a job and records its outcome.
func (s *Server) run(ctx context.Context, job *store.Job, opts pipeline.Options) {
	job.Status = store.StatusRunning
	if err := s.store.Update(ctx, job); err != nil {
		s.logger.Warn("job update failed", "id", job.ID, "err", err)
	}

	start := time.Now()
	res, err := s.runner.Execute(ctx, opts)
	if err == nil {
		var buf bytes.Buffer
		if err = lio.WriteLines(res.Layers, &buf); err == nil {
			job.Result = buf.Bytes()
			job.Stats = store.JobStats{
				Layers:     res.Stats.LayerCount,
				Roots:      res.Stats.RootCount,
				Nodes:      res.Stats.NodeCount,
				Lines:      res.Stats.LineCount,
				Length:     res.Stats.TotalLength,
				DurationMS: time.Since(start).Milliseconds(),
				Cached:     res.CacheInfo.GenerateHit,
			}
		}
	}
	if err != nil {
		job.Status = store.StatusFailed
		job.Error = errors.UserMessage(err)
		s.logger.Warn("job failed", "id", job.ID, "err", err)
	} else {
		job.Status = store.StatusDone
		s.logger.Info("job done", "id", job.ID, "lines", job.Stats.Lines, "duration", time.Since(start))
	}

	if err := s.store.Update(context.WithoutCancel(ctx), job); err != nil {
		s.logger.Error("job update failed", "id", job.ID, "err", err)
	}
}
