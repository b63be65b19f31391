package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cardgen "github.com/promoforge/cardgen"
	"github.com/promoforge/cardgen/internal/assets"
	"github.com/promoforge/cardgen/internal/config"
)

// maxUploadSize bounds workbook and logo uploads (20MB).
const maxUploadSize = 20 << 20

// wsWriteTimeout bounds a single snapshot delivery so one slow client
// cannot stall the broadcast fan-out.
const wsWriteTimeout = 5 * time.Second

// Server exposes the generation pipeline over HTTP: a multipart workbook
// upload that runs a generation, a websocket relaying progress snapshots,
// archive download, and the logo management surface.
type Server struct {
	cfg   *config.Config
	log   *slog.Logger
	mux   *http.ServeMux
	store *assets.Store

	upgrader websocket.Upgrader

	// clientsMu guards the websocket client set.
	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}

	// genMu serializes generation runs: the output directory is owned by
	// exactly one run at a time.
	genMu sync.Mutex
}

// NewServer builds the HTTP surface. The asset store is created up front
// so configuration problems surface at startup, not on first upload.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := assets.NewStore(cfg.Assets.LogosDir, cfg.Assets.SealsDir, cfg.Assets.DefaultLogo)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Server.UploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	s := &Server{
		cfg:   cfg,
		log:   logger,
		mux:   http.NewServeMux(),
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}

	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/api/generate", s.handleGenerate)
	s.mux.HandleFunc("/api/archive/", s.handleArchive)
	s.mux.HandleFunc("/api/logos", s.handleLogos)
	s.mux.HandleFunc("/api/logos/", s.handleLogoDelete)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleWS registers a progress subscriber. The read loop exists only to
// detect the peer going away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()

	go func() {
		defer s.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	_ = conn.Close()
}

// broadcast fans a snapshot out to every subscriber. Failed or slow
// clients are dropped; the generation loop is never blocked on delivery.
func (s *Server) broadcast(snap cardgen.ProgressSnapshot) {
	s.clientsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.clientsMu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.WriteJSON(snap); err != nil {
			s.dropClient(c)
		}
	}
}

// generateResponse is the JSON body returned by /api/generate.
type generateResponse struct {
	Outcome   string `json:"outcome"`
	Archive   string `json:"archive,omitempty"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
}

// handleGenerate accepts a multipart workbook upload and runs one
// generation. Runs are serialized; a second upload waits for the first.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("workbook")
	if err != nil {
		http.Error(w, "missing workbook file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	uploadPath := filepath.Join(s.cfg.Server.UploadDir, uuid.NewString()+".xlsx")
	if err := saveUpload(uploadPath, file); err != nil {
		s.log.Error("saving upload", "error", err)
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer func() { _ = os.Remove(uploadPath) }()

	s.genMu.Lock()
	defer s.genMu.Unlock()

	gen, err := cardgen.NewGenerator(s.cfg, cardgen.WithLogger(s.log))
	if err != nil {
		s.log.Error("initializing generator", "error", err)
		http.Error(w, "generator unavailable", http.StatusInternalServerError)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range gen.Progress() {
			s.broadcast(snap)
		}
	}()

	res, genErr := gen.Generate(r.Context(), uploadPath)
	_ = gen.Close()
	<-done

	if genErr != nil {
		s.log.Error("generation failed", "workbook", header.Filename, "error", genErr)
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return
	}

	resp := generateResponse{
		Outcome:   res.Outcome.String(),
		Processed: res.Processed,
		Total:     res.Total,
	}
	if res.ArchivePath != "" {
		resp.Archive = "/api/archive/" + filepath.Base(res.ArchivePath)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleArchive serves a produced archive for download by base name.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/archive/")
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".zip") {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.Output.Dir, name))
}

// logoEntry is one element of the logo listing.
type logoEntry struct {
	Name      string `json:"name"`
	Protected bool   `json:"protected"`
}

// handleLogos lists logos or accepts a new one.
func (s *Server) handleLogos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := os.ReadDir(s.store.LogosDir())
		if err != nil {
			http.Error(w, "failed to list logos", http.StatusInternalServerError)
			return
		}
		logos := make([]logoEntry, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			logos = append(logos, logoEntry{Name: e.Name(), Protected: s.store.IsProtected(e.Name())})
		}
		writeJSON(w, http.StatusOK, logos)

	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, header, err := r.FormFile("logo")
		if err != nil {
			http.Error(w, "missing logo file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		name := filepath.Base(header.Filename)
		if err := assets.ValidateAssetName(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := saveUpload(filepath.Join(s.store.LogosDir(), name), file); err != nil {
			s.log.Error("saving logo", "name", name, "error", err)
			http.Error(w, "failed to store logo", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, logoEntry{Name: name})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleLogoDelete removes a logo. The designated default placeholder is
// protected: rows with missing logos depend on it.
func (s *Server) handleLogoDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/logos/")
	if err := assets.ValidateAssetName(name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.store.IsProtected(name) {
		http.Error(w, assets.ErrProtectedAsset.Error(), http.StatusForbidden)
		return
	}
	if err := os.Remove(filepath.Join(s.store.LogosDir(), name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to delete logo", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveUpload streams a multipart part to disk.
func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path) // #nosec G304 -- path is built from a validated base name
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
