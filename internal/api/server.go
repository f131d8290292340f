package api

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/filter"
	"NetSentinel/internal/metrics"
	"NetSentinel/internal/notification"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/mux"
)

// Engine is the part of the engine the API drives. *manager.Manager satisfies it.
type Engine interface {
	Log() *notification.Log
	Metrics() *metrics.Metrics
	Filters() filter.Filters
	SetFilters(f filter.Filters)
	Settings() notification.Settings
	SetSettings(s notification.Settings)
}

// NotificationsResponse is the notifications view.
type NotificationsResponse struct {
	State         notification.ViewState `json:"state"`
	Notifications []notification.Record  `json:"notifications"`
	Unread        uint64                 `json:"unread"`
	TotalEmitted  uint64                 `json:"total_emitted"`
	Truncated     bool                   `json:"truncated"`
}

// FiltersResponse is the filters view.
type FiltersResponse struct {
	Filters       config.FilterDef `json:"filters"`
	EmptyInterval bool             `json:"empty_interval"`
}

// MatchRequest asks whether a flow would pass the filters. IP is either a
// version ("ipv4", "ipv6") or an address. Without Filters the current ones are used.
type MatchRequest struct {
	IP        string            `json:"ip"`
	Transport string            `json:"transport"`
	Port      uint16            `json:"port"`
	Filters   *config.FilterDef `json:"filters,omitempty"`
}

// MatchResponse is the result of a speculative match.
type MatchResponse struct {
	Matches       bool `json:"matches"`
	EmptyInterval bool `json:"empty_interval"`
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	engine Engine
}

// NewRouter registers every route on a new router.
func NewRouter(engine Engine) *mux.Router {
	h := &APIHandler{engine: engine}
	r := mux.NewRouter()

	r.HandleFunc("/api/v1/notifications", h.notificationsHandler).Methods("GET")
	r.HandleFunc("/api/v1/notifications/read", h.markReadHandler).Methods("POST")
	r.HandleFunc("/api/v1/notifications", h.clearHandler).Methods("DELETE")
	r.HandleFunc("/api/v1/filters", h.getFiltersHandler).Methods("GET")
	r.HandleFunc("/api/v1/filters", h.putFiltersHandler).Methods("PUT")
	r.HandleFunc("/api/v1/filters/match", h.matchHandler).Methods("POST")
	r.HandleFunc("/api/v1/settings", h.getSettingsHandler).Methods("GET")
	r.HandleFunc("/api/v1/settings", h.putSettingsHandler).Methods("PUT")
	r.Handle("/metrics", engine.Metrics().Handler()).Methods("GET")

	return r
}

// Server is the HTTP API server.
type Server struct {
	server *http.Server
}

// NewServer creates a server for engine listening on addr.
func NewServer(addr string, engine Engine) *Server {
	return &Server{server: &http.Server{Addr: addr, Handler: NewRouter(engine)}}
}

// Start listens in the background. Listen errors are returned immediately.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.server.Addr, err)
	}
	go func() {
		log.Printf("API server starting on %s", ln.Addr())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("API server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("API server shutting down...")
	return s.server.Shutdown(ctx)
}

func (h *APIHandler) snapshot() NotificationsResponse {
	snap := h.engine.Log().Snapshot()
	return NotificationsResponse{
		State:         notification.StateOf(h.engine.Settings(), snap),
		Notifications: notification.Records(snap.Notifications),
		Unread:        snap.Unread,
		TotalEmitted:  snap.TotalEmitted,
		Truncated:     snap.Truncated(),
	}
}

func (h *APIHandler) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *APIHandler) markReadHandler(w http.ResponseWriter, r *http.Request) {
	h.engine.Log().MarkAllRead()
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *APIHandler) clearHandler(w http.ResponseWriter, r *http.Request) {
	h.engine.Log().ClearAll()
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *APIHandler) getFiltersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, filtersResponse(h.engine.Filters()))
}

func (h *APIHandler) putFiltersHandler(w http.ResponseWriter, r *http.Request) {
	var def config.FilterDef
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}
	f, err := def.ToFilters()
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid filters: %v", err), http.StatusBadRequest)
		return
	}
	h.engine.SetFilters(f)
	log.Printf("Filters updated: %+v", def)
	writeJSON(w, http.StatusOK, filtersResponse(f))
}

func (h *APIHandler) matchHandler(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	f := h.engine.Filters()
	if req.Filters != nil {
		var err error
		if f, err = req.Filters.ToFilters(); err != nil {
			http.Error(w, fmt.Sprintf("invalid filters: %v", err), http.StatusBadRequest)
			return
		}
	}

	c, err := candidateOf(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, MatchResponse{
		Matches:       filter.Matches(c, f),
		EmptyInterval: emptyInterval(f),
	})
}

func (h *APIHandler) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.NotificationDefOf(h.engine.Settings()))
}

func (h *APIHandler) putSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var def config.NotificationDef
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}
	h.engine.SetSettings(def.ToSettings())
	log.Printf("Notification settings updated: packets=%v bytes=%v favorite=%t",
		def.PacketsThreshold != nil, def.BytesThreshold != nil, def.NotifyOnFavorite)
	writeJSON(w, http.StatusOK, config.NotificationDefOf(h.engine.Settings()))
}

func candidateOf(req MatchRequest) (filter.Candidate, error) {
	ip, err := config.ParseCandidateIP(req.IP)
	if err != nil {
		return filter.Candidate{}, err
	}
	transport, err := config.ParseTransport(req.Transport)
	if err != nil {
		return filter.Candidate{}, err
	}
	return filter.Candidate{IP: ip, Transport: transport, Port: req.Port}, nil
}

func filtersResponse(f filter.Filters) FiltersResponse {
	return FiltersResponse{Filters: config.FilterDefOf(f), EmptyInterval: emptyInterval(f)}
}

func emptyInterval(f filter.Filters) bool {
	iv, ok := f.Ports.(filter.Interval)
	return ok && iv.Empty()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
