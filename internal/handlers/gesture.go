package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yukikurage/join-board/internal/dto"
	apierrors "github.com/yukikurage/join-board/internal/errors"
	"github.com/yukikurage/join-board/internal/gesture"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/metrics"
	"github.com/yukikurage/join-board/internal/middleware"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/services"
)

const (
	gestureWriteWait    = 10 * time.Second
	gestureMaxMessage   = 64 << 10
	gestureOutboxLength = 64
	gestureCloseWait    = time.Second
)

// GestureConfig tunes the drag-and-drop session of each WebSocket connection.
type GestureConfig struct {
	LongPress      time.Duration
	PersistTimeout time.Duration
	// Clock drives the long-press timer. Nil means the wall clock.
	Clock gesture.Clock
}

// GestureHandler serves the board drag-and-drop WebSocket. Each connection owns
// one tracker, so gestures of different tabs never share state.
type GestureHandler struct {
	taskService *services.TaskService
	metrics     *metrics.Metrics
	cfg         GestureConfig
	log         *logger.Logger
	upgrader    websocket.Upgrader

	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	closing  bool
	sessions sync.WaitGroup
}

func NewGestureHandler(taskService *services.TaskService, m *metrics.Metrics, cfg GestureConfig, log *logger.Logger) *GestureHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GestureHandler{
		taskService: taskService,
		metrics:     m,
		cfg:         cfg,
		log:         log.WithComponent("gesture_ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// ServeWS upgrades the request and runs the gesture session until the client leaves.
func (h *GestureHandler) ServeWS(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debugw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	if !h.register(conn) {
		sendGoingAway(conn)
		return
	}
	defer h.unregister(conn)
	conn.SetReadLimit(gestureMaxMessage)

	log := h.log.WithUserID(userID)
	session := newGestureSession(conn, log)
	go session.writeLoop()

	committer := gesture.NewCommitter(gesture.PersisterFunc(func(ctx context.Context, cardID, column string) error {
		_, err := h.taskService.MoveTask(ctx, userID, cardID, models.TaskStatus(column))
		return err
	}), h.cfg.PersistTimeout, log)
	committer.OnResult = func(res gesture.CommitResult) {
		if h.metrics != nil {
			result := "ok"
			if res.Err != nil {
				result = "error"
			}
			h.metrics.StatusCommits.WithLabelValues(result).Inc()
		}
		session.send(dto.ToGestureCommitMessage(res))
	}

	tracker := gesture.NewTracker(gesture.Options{
		LongPress: h.cfg.LongPress,
		Clock:     h.cfg.Clock,
		Committer: committer,
		OnEvent: func(ev gesture.Event) {
			if h.metrics != nil && ev.Type != gesture.EventFrame && ev.State.Terminal() {
				h.metrics.Gestures.WithLabelValues(string(ev.State)).Inc()
			}
			session.send(dto.ToGestureEventMessage(ev))
		},
	})

	log.Debugw("gesture session started")
	h.readLoop(conn, tracker, session)

	// A connection lost mid-gesture behaves like a cancelled touch.
	tracker.Cancel()
	tracker.Close()
	committer.Wait()
	session.close()
	if h.isClosing() {
		sendGoingAway(conn)
	}
	log.Debugw("gesture session ended")
}

// Shutdown ends every open gesture session and waits until their pending status
// commits have finished. Sessions opened afterwards are refused.
func (h *GestureHandler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	for conn := range h.conns {
		// Fails the blocked read; the session then drains its commits.
		_ = conn.SetReadDeadline(time.Now())
	}
	open := len(h.conns)
	h.mu.Unlock()

	if open > 0 {
		h.log.Infow("closing gesture sessions", "sessions", open)
	}

	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("gesture sessions still open: %w", ctx.Err())
	}
}

func (h *GestureHandler) register(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.conns[conn] = struct{}{}
	h.sessions.Add(1)
	return true
}

func (h *GestureHandler) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	h.sessions.Done()
}

func (h *GestureHandler) isClosing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closing
}

func sendGoingAway(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(gestureCloseWait))
}

func (h *GestureHandler) readLoop(conn *websocket.Conn, tracker *gesture.Tracker, session *gestureSession) {
	for {
		var msg dto.GestureClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				session.log.Debugw("websocket read failed", "error", err)
			}
			return
		}

		switch msg.Type {
		case dto.GestureMsgLayout:
			if msg.Layout == nil {
				session.send(dto.GestureErrorMessage("layout message without layout"))
				continue
			}
			tracker.SetLayout(*msg.Layout)
		case dto.GestureMsgPress:
			tracker.Press(msg.CardID, msg.Point())
		case dto.GestureMsgMove:
			tracker.Move(msg.Point())
		case dto.GestureMsgRelease:
			tracker.Release(msg.Point())
		case dto.GestureMsgCancel:
			tracker.Cancel()
		default:
			session.send(dto.GestureErrorMessage("unknown message type " + msg.Type))
		}
	}
}

// gestureSession serializes writes to one connection. Messages sent after the
// connection broke are dropped.
type gestureSession struct {
	conn   *websocket.Conn
	log    *logger.Logger
	outbox chan dto.GestureServerMessage
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func newGestureSession(conn *websocket.Conn, log *logger.Logger) *gestureSession {
	s := &gestureSession{
		conn:   conn,
		log:    log,
		outbox: make(chan dto.GestureServerMessage, gestureOutboxLength),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	return s
}

func (s *gestureSession) send(msg dto.GestureServerMessage) {
	select {
	case s.outbox <- msg:
	case <-s.done:
	}
}

func (s *gestureSession) writeLoop() {
	defer s.wg.Done()
	broken := false
	for {
		select {
		case msg := <-s.outbox:
			if broken {
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(gestureWriteWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.Debugw("websocket write failed", "error", err)
				broken = true
			}
		case <-s.done:
			s.flush(broken)
			return
		}
	}
}

// flush writes whatever is still queued when the session closes.
func (s *gestureSession) flush(broken bool) {
	for {
		select {
		case msg := <-s.outbox:
			if broken {
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(gestureWriteWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				broken = true
			}
		default:
			return
		}
	}
}

func (s *gestureSession) close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}
