package timer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"towersplit/config"
	"towersplit/logger"
)

// Server talks to the LiveSplit Server component over its line based TCP
// protocol. The connection is opened on first use and re-dialed after a
// cool-down when it drops.
type Server struct {
	addr    string
	timeout time.Duration
	retry   time.Duration
	now     func() time.Time

	conn     net.Conn
	reader   *bufio.Reader
	nextDial time.Time

	state State
	sent  map[string]string
}

func NewServer(addr string) *Server {
	if addr == "" {
		addr = config.LIVESPLIT_SERVER_ADDR
	}
	return &Server{
		addr:    addr,
		timeout: config.SINK_TIMEOUT,
		retry:   config.SINK_RETRY,
		now:     time.Now,
		sent:    make(map[string]string),
	}
}

func (s *Server) connected() bool {
	if s.conn != nil {
		return true
	}
	if s.now().Before(s.nextDial) {
		return false
	}

	conn, err := net.DialTimeout("tcp", s.addr, s.timeout)
	if err != nil {
		s.nextDial = s.now().Add(s.retry)
		logger.Logf("livesplit", "could not connect to %s: %v", s.addr, err)
		return false
	}
	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.sent = make(map[string]string)
	logger.Logf("livesplit", "connected to %s", s.addr)
	return true
}

func (s *Server) drop(err error) {
	logger.Logf("livesplit", "connection lost: %v", err)
	s.Close()
	s.nextDial = s.now().Add(s.retry)
}

func (s *Server) send(command string) bool {
	if !s.connected() {
		return false
	}
	s.conn.SetWriteDeadline(s.now().Add(s.timeout))
	if _, err := fmt.Fprintf(s.conn, "%s\r\n", command); err != nil {
		s.drop(err)
		return false
	}
	return true
}

func (s *Server) query(command string) (string, bool) {
	if !s.send(command) {
		return "", false
	}
	s.conn.SetReadDeadline(s.now().Add(s.timeout))
	line, err := s.reader.ReadString('\n')
	if err != nil {
		s.drop(err)
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (s *Server) Start() {
	if s.send("starttimer") {
		s.state = Running
	}
}

func (s *Server) Split() {
	s.send("split")
}

func (s *Server) Reset() {
	if s.send("reset") {
		s.state = NotRunning
	}
}

// State asks for the current phase. When LiveSplit cannot be reached the
// last known phase is returned.
func (s *Server) State() State {
	reply, ok := s.query("getcurrenttimerphase")
	if !ok {
		return s.state
	}
	state, ok := ParseState(reply)
	if !ok {
		logger.Logf("livesplit", "unknown timer phase %q", reply)
		return s.state
	}
	s.state = state
	return state
}

func (s *Server) SetGameTime(seconds float64) {
	s.send("setgametime " + strconv.FormatFloat(seconds, 'f', -1, 64))
}

func (s *Server) PauseGameTime() {
	s.send("pausegametime")
}

// SetVariable only sends values that changed since the last send on this
// connection.
func (s *Server) SetVariable(name, value string) {
	if v, ok := s.sent[name]; ok && v == value && s.conn != nil {
		return
	}
	args, err := json.Marshal([2]string{name, value})
	if err != nil {
		return
	}
	if s.send("setcustomvariable " + string(args)) {
		s.sent[name] = value
	}
}

func (s *Server) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.reader = nil
	}
}
