package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

var poseUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// poseServer keeps the latest pose and fans it out to websocket clients.
type poseServer struct {
	logger customlog.Logger

	mu       sync.RWMutex
	lastPose PoseMessage
	havePose bool
	clients  map[chan PoseMessage]struct{}
}

func newPoseServer(logger customlog.Logger) *poseServer {
	return &poseServer{
		logger:  logger,
		clients: make(map[chan PoseMessage]struct{}),
	}
}

func (s *poseServer) update(p PoseMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPose = p
	s.havePose = true
	for ch := range s.clients {
		// slow clients skip poses
		select {
		case ch <- p:
		default:
		}
	}
}

func (s *poseServer) handlePose(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.havePose {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.lastPose); err != nil {
		s.logger.Errorf("json encode error: %v", err)
	}
}

func (s *poseServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := poseUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("pose websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := make(chan PoseMessage, 4)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	// reader only detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case p := <-ch:
			conn.SetWriteDeadline(time.Now().Add(time.Second))
			if err := conn.WriteJSON(p); err != nil {
				s.logger.Warnf("pose websocket write error: %v", err)
				return
			}
		}
	}
}

func (s *poseServer) handler(staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pose", s.handlePose)
	mux.HandleFunc("/ws/pose", s.handleWS)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// RunWeb serves the latest pose over HTTP and a websocket stream.
func RunWeb(ctx context.Context, cfg *config.Config, logger customlog.Logger) error {
	client, err := connectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientIDWeb, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	ps := newPoseServer(logger)
	if err := subscribePose(client, cfg.MQTT.TopicPose, logger, ps.update); err != nil {
		return err
	}

	srv := &http.Server{Addr: cfg.Web.PoseAddr, Handler: ps.handler(cfg.Web.StaticDir)}
	stop := context.AfterFunc(ctx, func() { srv.Close() })
	defer stop()

	logger.Infof("web server listening on %s", cfg.Web.PoseAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
