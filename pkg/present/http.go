package present

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/xerror"
)

const jpegQuality = 85

// HTTP serves the most recent frame as a JPEG along with its status line.
type HTTP struct {
	server *http.Server

	mu      sync.RWMutex
	jpeg    []byte
	status  string
	updated time.Time
	frames  uint64
}

type statusResponse struct {
	Status  string    `json:"status"`
	Updated time.Time `json:"updated"`
	Frames  uint64    `json:"frames"`
}

func NewHTTP(addr string) *HTTP {
	h := &HTTP{}
	h.server = &http.Server{
		Handler:      h.Router(),
		Addr:         addr,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return h
}

func (h *HTTP) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/frame.jpg", h.handleFrame).Methods("GET")
	r.HandleFunc("/status", h.handleStatus).Methods("GET")
	return r
}

// Start serves in the background until Close.
func (h *HTTP) Start() {
	go func() {
		log.Info("Serving frames on %s", h.server.Addr)
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Frame server stopped: %v", err)
		}
	}()
}

// Show encodes frame straight away so the caller keeps ownership of it.
func (h *HTTP) Show(frame *image.RGBA, status string) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return xerror.Errorf("unable to encode frame: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.jpeg = buf.Bytes()
	h.status = status
	h.updated = time.Now()
	h.frames++
	return nil
}

func (h *HTTP) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.server.Shutdown(ctx)
}

func (h *HTTP) handleFrame(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	data := h.jpeg
	h.mu.RUnlock()

	if len(data) == 0 {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data) //nolint
}

func (h *HTTP) handleStatus(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	resp := statusResponse{Status: h.status, Updated: h.updated, Frames: h.frames}
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp) //nolint
}
