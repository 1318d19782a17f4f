// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package joystick

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // operator console is served from another port
	},
}

// Server accepts gamepad snapshots over a websocket and keeps the latest one.
// When the last operator disconnects the state is cleared so the drivetrain
// coasts to a stop instead of holding the final stick position.
type Server struct {
	logger customlog.Logger

	mu        sync.RWMutex
	state     State
	operators int
}

// NewServer returns a server with a neutral gamepad.
func NewServer(logger customlog.Logger) *Server {
	return &Server{logger: logger}
}

// State implements Source.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Operators is the number of connected clients.
func (s *Server) Operators() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.operators
}

// HandleWS reads JSON State messages until the client goes away.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("joystick: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.operators++
	s.mu.Unlock()
	s.logger.Infof("joystick: operator connected from %s", conn.RemoteAddr())

	defer func() {
		s.mu.Lock()
		s.operators--
		if s.operators == 0 {
			s.state = State{}
		}
		s.mu.Unlock()
		s.logger.Infof("joystick: operator %s disconnected", conn.RemoteAddr())
	}()

	for {
		var msg State
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnf("joystick: websocket read error: %v", err)
			}
			return
		}

		s.mu.Lock()
		s.state = msg
		s.mu.Unlock()
	}
}

// Handler returns a mux serving the websocket at /ws/joystick.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/joystick", s.HandleWS)
	return mux
}
