// Package server serves the forecast of one location over HTTP and pushes
// updates to WebSocket clients whenever a new forecast arrives.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/devskill-org/metno/daily"
	"github.com/devskill-org/metno/meteo"
	"github.com/devskill-org/metno/utils"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// WebServer provides HTTP endpoints for health checking and forecast data
type WebServer struct {
	refresher *Refresher
	server    *http.Server
	port      int
	days      int
	location  *time.Location
	startTime time.Time
	logger    *zap.Logger
	upgrader  websocket.Upgrader
	clients   sync.Map // client id -> *wsClient
	broadcast chan []byte
	done      chan struct{}
	stopOnce  sync.Once
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (c *wsClient) write(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Version   string          `json:"version,omitempty"`
	Forecast  RefresherStatus `json:"forecast"`
	System    SystemHealth    `json:"system"`
}

// SystemHealth represents system-level health information
type SystemHealth struct {
	Uptime  string `json:"uptime"`
	Clients int    `json:"clients"`
}

// DailyResponse is the body of /api/daily and of forecast_update messages.
type DailyResponse struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Timezone  string      `json:"timezone"`
	UpdatedAt time.Time   `json:"updated_at"`
	Days      []daily.Day `json:"days"`
}

// NewWebServer creates a new web server. It returns nil when port is not
// positive, which disables serving.
func NewWebServer(refresher *Refresher, port, days int, logger *zap.Logger) *WebServer {
	if port <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	params := refresher.Params()
	mux := http.NewServeMux()
	ws := &WebServer{
		refresher: refresher,
		port:      port,
		days:      days,
		location:  daily.LocationFor(params.Latitude, params.Longitude),
		startTime: time.Now(),
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcast: make(chan []byte, 16),
		done:      make(chan struct{}),
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	mux.HandleFunc("/api/health", ws.healthHandler)
	mux.HandleFunc("/api/forecast", ws.forecastHandler)
	mux.HandleFunc("/api/daily", ws.dailyHandler)
	mux.HandleFunc("/api/ws", ws.wsHandler)

	refresher.OnUpdate(ws.publish)
	return ws
}

// Handler returns the HTTP handler with all routes registered.
func (ws *WebServer) Handler() http.Handler {
	return ws.server.Handler
}

// Start starts the web server
func (ws *WebServer) Start() error {
	if ws == nil {
		return nil
	}

	go ws.handleBroadcasts()

	go func() {
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ws.logger.Error("web server error", zap.Error(err))
		}
	}()

	ws.logger.Info("web server started", zap.Int("port", ws.port))
	return nil
}

// Stop gracefully stops the web server and disconnects WebSocket clients.
func (ws *WebServer) Stop(ctx context.Context) error {
	if ws == nil {
		return nil
	}

	ws.stopOnce.Do(func() { close(ws.done) })

	ws.clients.Range(func(key, value any) bool {
		if c, ok := value.(*wsClient); ok {
			c.conn.Close()
		}
		return true
	})

	return ws.server.Shutdown(ctx)
}

// healthHandler handles the /api/health endpoint
func (ws *WebServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Forecast:  ws.refresher.Status(),
		System: SystemHealth{
			Uptime:  formatUptime(time.Since(ws.startTime)),
			Clients: ws.clientCount(),
		},
	}

	status := http.StatusOK
	if !health.Forecast.HasForecast {
		health.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// forecastHandler serves the latest API body unchanged.
func (ws *WebServer) forecastHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := ws.refresher.Latest()
	if resp == nil {
		http.Error(w, "Forecast not available yet", http.StatusServiceUnavailable)
		return
	}

	if resp.LastModified != "" {
		w.Header().Set("Last-Modified", resp.LastModified)
	}
	if !resp.ExpiresAt.IsZero() {
		w.Header().Set("Expires", utils.FormatHTTPDate(resp.ExpiresAt))
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(resp.Raw())
}

// dailyHandler serves the day-by-day summary. The optional days query
// parameter overrides the configured number of days.
func (ws *WebServer) dailyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := ws.days
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 10 {
			http.Error(w, "days must be an integer between 1 and 10", http.StatusBadRequest)
			return
		}
		days = n
	}

	resp := ws.refresher.Latest()
	if resp == nil {
		http.Error(w, "Forecast not available yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, ws.buildDaily(resp, days))
}

func (ws *WebServer) buildDaily(resp *meteo.Response, days int) DailyResponse {
	params := ws.refresher.Params()
	return DailyResponse{
		Latitude:  params.Latitude,
		Longitude: params.Longitude,
		Timezone:  ws.location.String(),
		UpdatedAt: resp.Forecast.Properties.Meta.UpdatedAt,
		Days:      daily.Summarize(resp.Forecast, ws.location, days),
	}
}

// wsHandler handles WebSocket connections
func (ws *WebServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{id: uuid.NewString(), conn: conn}
	ws.clients.Store(client.id, client)
	ws.logger.Info("websocket client connected",
		zap.String("client", client.id),
		zap.Int("clients", ws.clientCount()))

	if resp := ws.refresher.Latest(); resp != nil {
		if message, err := ws.updateMessage(resp); err == nil {
			if err := client.write(message); err != nil {
				ws.logger.Warn("failed to send initial forecast", zap.String("client", client.id), zap.Error(err))
			}
		}
	}

	defer func() {
		ws.clients.Delete(client.id)
		conn.Close()
		ws.logger.Info("websocket client disconnected",
			zap.String("client", client.id),
			zap.Int("clients", ws.clientCount()))
	}()

	// Reads only detect close; clients have nothing to say.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Debug("websocket read error", zap.String("client", client.id), zap.Error(err))
			}
			return
		}
	}
}

// updateMessage is the forecast_update WebSocket message.
func (ws *WebServer) updateMessage(resp *meteo.Response) ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":      "forecast_update",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"daily":     ws.buildDaily(resp, ws.days),
	})
}

// publish queues a forecast_update for all clients. It never blocks the
// refresher; when the queue is full the update is dropped.
func (ws *WebServer) publish(resp *meteo.Response) {
	if ws.clientCount() == 0 {
		return
	}
	message, err := ws.updateMessage(resp)
	if err != nil {
		ws.logger.Error("failed to marshal forecast update", zap.Error(err))
		return
	}
	select {
	case ws.broadcast <- message:
	default:
		ws.logger.Warn("broadcast queue full, dropping forecast update")
	}
}

// handleBroadcasts sends messages to all connected clients
func (ws *WebServer) handleBroadcasts() {
	for {
		select {
		case message := <-ws.broadcast:
			ws.clients.Range(func(key, value any) bool {
				client, ok := value.(*wsClient)
				if !ok {
					return true
				}
				if err := client.write(message); err != nil {
					ws.logger.Warn("websocket write failed", zap.String("client", client.id), zap.Error(err))
					client.conn.Close()
					ws.clients.Delete(key)
				}
				return true
			})
		case <-ws.done:
			return
		}
	}
}

func (ws *WebServer) clientCount() int {
	n := 0
	ws.clients.Range(func(key, value any) bool {
		n++
		return true
	})
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// formatUptime formats a duration as a string with seconds rounded to integer
func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
