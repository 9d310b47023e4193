//
// Tencent is pleased to support the open source community by making smartdoc-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// smartdoc-go is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the plugin tools over HTTP. Hosts list the
// tool declarations, then invoke a tool by name with a JSON payload.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/smartdoc-parser/smartdoc-go/document"
	"github.com/smartdoc-parser/smartdoc-go/log"
	"github.com/smartdoc-parser/smartdoc-go/tool"
)

// maxInvokeBodySize caps tool invocation payloads at 16 MiB. Files are
// referenced by URL, not inlined, so payloads stay small.
const maxInvokeBodySize = 16 << 20

const requestIDHeader = "X-Request-ID"

// Server hosts the registered plugin tools.
type Server struct {
	router *mux.Router
	tools  map[string]tool.CallableTool
	order  []string
}

// Option configures the Server.
type Option func(*Server)

// WithTool registers a tool. Registering the same name twice replaces
// the earlier tool.
func WithTool(t tool.CallableTool) Option {
	return func(s *Server) {
		name := t.Declaration().Name
		if _, exists := s.tools[name]; !exists {
			s.order = append(s.order, name)
		}
		s.tools[name] = t
	}
}

// New creates a Server hosting the given tools.
func New(opts ...Option) *Server {
	s := &Server{
		router: mux.NewRouter(),
		tools:  make(map[string]tool.CallableTool),
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type", requestIDHeader},
	})
	s.router.Use(c.Handler)
	s.router.Use(requestID)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts serving on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Infof("serving %d tools on %s", len(s.tools), addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/tools", s.handleListTools).Methods(http.MethodGet)
	s.router.HandleFunc("/tools/{name}/invoke", s.handleInvoke).Methods(http.MethodPost)
}

// requestID tags every request with an ID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	declarations := make([]*tool.Declaration, 0, len(s.order))
	for _, name := range s.order {
		declarations = append(declarations, s.tools[name].Declaration())
	}
	s.writeJSON(w, http.StatusOK, declarations)
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	t, ok := s.tools[name]
	if !ok {
		s.writeError(w, http.StatusNotFound,
			document.NewError("unknown_tool", "no tool named "+name))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxInvokeBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest,
			document.NewError(document.CodeInvalidParams, "could not read request body"))
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	requestID := w.Header().Get(requestIDHeader)
	log.Debugf("invoke tool=%s request=%s bytes=%d", name, requestID, len(body))

	result, err := t.Call(r.Context(), body)
	if err != nil {
		toolErr := document.AsError(err, document.CodeProcessingFailed)
		log.Infof("tool %s failed request=%s code=%s", name, requestID, toolErr.Code)
		s.writeError(w, statusFor(toolErr.Code), toolErr)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// statusFor maps tool error codes onto HTTP statuses. Caller mistakes
// are 4xx; everything else is an internal failure.
func statusFor(code string) int {
	switch code {
	case document.CodeInvalidParams,
		document.CodeInvalidFileURL,
		"invalid_image_url",
		"invalid_json",
		"not_zip":
		return http.StatusBadRequest
	case document.CodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	case document.CodeDownloadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, toolErr *document.Error) {
	s.writeJSON(w, status, toolErr)
}
