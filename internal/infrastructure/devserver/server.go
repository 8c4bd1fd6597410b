// Package devserver serves scene files to editing tools while the game runs.
package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/younwookim/tilewalk/internal/application/system"
	"github.com/younwookim/tilewalk/internal/domain/entity"
	"github.com/younwookim/tilewalk/internal/infrastructure/asset"
	"github.com/younwookim/tilewalk/internal/infrastructure/config"
)

const maxSceneBytes = 4 << 20

// SceneStore reads and writes scene files
type SceneStore interface {
	ReadSceneRaw(name string) ([]byte, error)
	LoadScene(name string) (*config.SceneConfig, error)
	SaveScene(cfg *config.SceneConfig) error
	SceneIndex() ([]string, error)
}

// ImageSource returns decoded tilesets at tile size
type ImageSource interface {
	Source(ctx context.Context, path string) (image.Image, error)
}

// Applier re-registers an edited descriptor with the running game
type Applier interface {
	ApplyDescriptor(ctx context.Context, desc *entity.SceneDescriptor) (bool, error)
}

// Options configures a Server. Images, Applier and CacheKeys may be nil.
type Options struct {
	Scenes    SceneStore
	Images    ImageSource
	Applier   Applier
	TileSize  int
	CacheKeys func() map[string][]string
}

// Server is the dev sync endpoint.
type Server struct {
	opts Options
	mux  *http.ServeMux
}

// New creates a server
func New(opts Options) *Server {
	s := &Server{opts: opts, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /scenes", s.handleIndex)
	s.mux.HandleFunc("GET /scenes/{name}", s.handleGet)
	s.mux.HandleFunc("GET /scenes/{name}/preview.webp", s.handlePreview)
	s.mux.HandleFunc("POST /scenes", s.handlePost)
	s.mux.HandleFunc("GET /cache", s.handleCache)
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("devserver: listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.opts.Scenes.SceneIndex()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"scenes": names})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	data, err := s.opts.Scenes.ReadSceneRaw(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSceneBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	cfg, err := config.ParseScene(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	desc, err := system.LoadDescriptor(cfg, s.opts.TileSize)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.opts.Scenes.SaveScene(cfg); err != nil {
		writeError(w, err)
		return
	}
	log.Printf("devserver: wrote scene %s", cfg.Name)

	if s.opts.Applier != nil {
		if _, err := s.opts.Applier.ApplyDescriptor(r.Context(), desc); err != nil {
			log.Printf("devserver: apply %s: %v", cfg.Name, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.opts.Scenes.LoadScene(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	desc, err := system.LoadDescriptor(cfg, s.opts.TileSize)
	if err != nil {
		writeError(w, err)
		return
	}

	var tileset image.Image
	if s.opts.Images != nil && desc.Tileset != "" {
		tileset, err = s.opts.Images.Source(r.Context(), desc.Tileset)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := asset.EncodePreview(&buf, desc, tileset); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	keys := map[string][]string{}
	if s.opts.CacheKeys != nil {
		keys = s.opts.CacheKeys()
	}
	writeJSON(w, http.StatusOK, keys)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("devserver: encode response: %v", err)
	}
}

// writeError maps loader and validation errors to status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, config.ErrInvalidName), errors.Is(err, system.ErrInvalidScene):
		status = http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, config.ErrReadOnly):
		status = http.StatusForbidden
	}
	http.Error(w, err.Error(), status)
}
