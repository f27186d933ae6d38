package timer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		resp.Body.Close()
	})

	waitFor(t, func() bool { return h.Clients() == 1 })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readCommand(t *testing.T, conn *websocket.Conn) command {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var cmd command
	if err := conn.ReadJSON(&cmd); err != nil {
		t.Fatalf("read: %v", err)
	}
	return cmd
}

func (h *Hub) cachedState() State {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.state
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub("")
	h.SetVariable("Level", "Hub")
	conn := dialHub(t, h)

	// variables set before the client joined are replayed
	if got := readCommand(t, conn); got != (command{Command: "setCustomVariable", Key: "Level", Value: "Hub"}) {
		t.Errorf("replay = %+v", got)
	}

	h.Start()
	h.SetGameTime(3.5)
	h.SetVariable("Level", "Hub")
	h.SetVariable("Level", "Oregano Desert")
	h.Split()

	want := []command{
		{Command: "start"},
		{Command: "setGameTime", Time: "3.5"},
		{Command: "setCustomVariable", Key: "Level", Value: "Oregano Desert"},
		{Command: "split"},
	}
	var got []command
	for range want {
		got = append(got, readCommand(t, conn))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}
	if h.cachedState() != Running {
		t.Errorf("state after start = %v", h.cachedState())
	}
}

func TestHubStateFromReplies(t *testing.T) {
	h := NewHub("")
	conn := dialHub(t, h)

	for _, msg := range []string{`{"success":{"state":"Paused"}}`, `{"success":"Ended"}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, func() bool { return h.cachedState() == Ended })

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"error":{"code":"RunNotStarted"}}`)); err != nil {
		t.Fatal(err)
	}
	if got := h.State(); got != Ended {
		t.Errorf("error reply changed the state to %v", got)
	}
	if got := readCommand(t, conn); got.Command != "getCurrentState" {
		t.Errorf("query = %+v", got)
	}
}

func TestHubHTTP(t *testing.T) {
	h := NewHub("")
	h.SetVariable("Boss HP", "3")
	h.Start()

	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/variables")
	if err != nil {
		t.Fatal(err)
	}
	var vars map[string]string
	err = json.NewDecoder(resp.Body).Decode(&vars)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]string{"Boss HP": "3"}, vars); diff != "" {
		t.Errorf("variables (-want +got):\n%s", diff)
	}

	resp, err = http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	var status struct {
		State   string `json:"state"`
		Clients int    `json:"clients"`
	}
	err = json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if status.State != "Running" || status.Clients != 0 {
		t.Errorf("status = %+v", status)
	}
}
