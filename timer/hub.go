package timer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"towersplit/config"
	"towersplit/logger"
)

const clientQueue = 64

// Hub is a WebSocket server LiveSplit One connects to. Commands are
// broadcast to every connected client; the timer phase is cached from
// the clients' replies.
type Hub struct {
	addr     string
	router   *mux.Router
	upgrader websocket.Upgrader
	server   *http.Server

	mutex     sync.Mutex
	clients   map[*client]struct{}
	state     State
	variables map[string]string
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type command struct {
	Command string `json:"command"`
	Time    string `json:"time,omitempty"`
	Key     string `json:"key,omitempty"`
	Value   string `json:"value,omitempty"`
}

type reply struct {
	Success json.RawMessage `json:"success"`
	Error   json.RawMessage `json:"error"`
}

func NewHub(addr string) *Hub {
	if addr == "" {
		addr = config.LIVESPLIT_ONE_ADDR
	}
	h := &Hub{
		addr:   addr,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:   make(map[*client]struct{}),
		variables: make(map[string]string),
	}
	h.router.HandleFunc("/", h.handleSocket)
	h.router.HandleFunc("/variables", h.handleVariables).Methods("GET")
	h.router.HandleFunc("/state", h.handleState).Methods("GET")
	return h
}

func (h *Hub) Handler() http.Handler {
	return h.router
}

// ListenAndServe serves in the background until Close.
func (h *Hub) ListenAndServe() {
	h.server = &http.Server{
		Addr:              h.addr,
		Handler:           h.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Logf("livesplit-one", "listening on ws://%s/", h.addr)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logf("livesplit-one", "server stopped: %v", err)
		}
	}()
}

func (h *Hub) Close() {
	if h.server != nil {
		h.server.Close()
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		h.remove(c)
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logf("livesplit-one", "upgrade failed: %v", err)
		return
	}

	h.mutex.Lock()
	c := &client{conn: conn, send: make(chan []byte, clientQueue+len(h.variables))}
	h.clients[c] = struct{}{}
	for name, value := range h.variables {
		if data, err := json.Marshal(command{Command: "setCustomVariable", Key: name, Value: value}); err == nil {
			c.send <- data
		}
	}
	h.mutex.Unlock()
	logger.Logf("livesplit-one", "client connected from %s", r.RemoteAddr)

	go h.write(c)
	h.read(c)
}

func (h *Hub) write(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(config.SINK_RETRY))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mutex.Lock()
			h.remove(c)
			h.mutex.Unlock()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) read(c *client) {
	defer func() {
		h.mutex.Lock()
		h.remove(c)
		h.mutex.Unlock()
		logger.Log("livesplit-one", "client disconnected")
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg reply
		if err := json.Unmarshal(payload, &msg); err != nil {
			logger.Logf("livesplit-one", "discarding malformed message: %v", err)
			continue
		}
		if len(msg.Error) > 0 && string(msg.Error) != "null" {
			logger.Logf("livesplit-one", "command failed: %s", msg.Error)
			continue
		}
		if state, ok := parseReplyState(msg.Success); ok {
			h.mutex.Lock()
			h.state = state
			h.mutex.Unlock()
		}
	}
}

// parseReplyState accepts both {"state":"Running"} and a bare "Running".
func parseReplyState(raw json.RawMessage) (State, bool) {
	if len(raw) == 0 {
		return NotRunning, false
	}
	var obj struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.State != "" {
		return ParseState(obj.State)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseState(s)
	}
	return NotRunning, false
}

func (h *Hub) broadcast(cmd command) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logger.Log("livesplit-one", "client too slow, dropping it")
			h.remove(c)
		}
	}
}

func (h *Hub) setState(s State) {
	h.mutex.Lock()
	h.state = s
	h.mutex.Unlock()
}

func (h *Hub) Start() {
	h.broadcast(command{Command: "start"})
	h.setState(Running)
}

func (h *Hub) Split() {
	h.broadcast(command{Command: "split"})
}

func (h *Hub) Reset() {
	h.broadcast(command{Command: "reset"})
	h.setState(NotRunning)
}

// State asks the clients for their phase and returns the last one reported.
func (h *Hub) State() State {
	h.broadcast(command{Command: "getCurrentState"})
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.state
}

func (h *Hub) SetGameTime(seconds float64) {
	h.broadcast(command{Command: "setGameTime", Time: strconv.FormatFloat(seconds, 'f', -1, 64)})
}

func (h *Hub) PauseGameTime() {
	h.broadcast(command{Command: "pauseGameTime"})
}

func (h *Hub) SetVariable(name, value string) {
	h.mutex.Lock()
	old, ok := h.variables[name]
	h.variables[name] = value
	h.mutex.Unlock()
	if ok && old == value {
		return
	}
	h.broadcast(command{Command: "setCustomVariable", Key: name, Value: value})
}

func (h *Hub) handleVariables(w http.ResponseWriter, r *http.Request) {
	h.mutex.Lock()
	vars := make(map[string]string, len(h.variables))
	for k, v := range h.variables {
		vars[k] = v
	}
	h.mutex.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(vars); err != nil {
		http.Error(w, "failed to encode variables", http.StatusInternalServerError)
	}
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	h.mutex.Lock()
	status := map[string]any{
		"state":   h.state.String(),
		"clients": len(h.clients),
	}
	h.mutex.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, "failed to encode state", http.StatusInternalServerError)
	}
}
