package debugws

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

const (
	Path            = "/debug"
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 2 * time.Second
	maxFrameBytes   = 4096
)

// Runner executes one debug command line.
type Runner interface {
	Run(line string) ([]string, error)
}

// Reply is sent for every text frame received.
type Reply struct {
	Command string   `json:"command"`
	OK      bool     `json:"ok"`
	Lines   []string `json:"lines"`
	Error   string   `json:"error,omitempty"`
}

type Handler struct {
	runner   Runner
	log      game.Logger
	upgrader websocket.Upgrader
}

func NewHandler(r Runner, log game.Logger) *Handler {
	return &Handler{
		runner: r,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     localOrigin,
		},
	}
}

// localOrigin admits tools without an Origin header and pages served from
// the loopback interface.
func localOrigin(r *nethttp.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("debug console upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameBytes)
	h.log.Infof("debug console connected from %s", r.RemoteAddr)

	for {
		kind, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debugf("debug console read: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		line := string(payload)
		lines, runErr := h.runner.Run(line)
		reply := Reply{Command: line, OK: runErr == nil, Lines: lines}
		if reply.Lines == nil {
			reply.Lines = []string{}
		}
		if runErr != nil {
			reply.Error = runErr.Error()
		}
		data, err := json.Marshal(reply)
		if err != nil {
			h.log.Errorf("debug console marshal: %v", err)
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debugf("debug console write: %v", err)
			return
		}
	}
}

// Serve runs the console on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h *Handler) error {
	mux := nethttp.NewServeMux()
	mux.Handle(Path, h)
	srv := &nethttp.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	h.log.Infof("debug console listening on ws://%s%s", addr, Path)

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
