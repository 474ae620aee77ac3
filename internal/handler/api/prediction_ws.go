package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/metrics"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 4 << 10
)

// PredictionStreamHandler answers prediction frames on a websocket, one
// StreamResponse per StreamRequest, in order.
type PredictionStreamHandler struct {
	logger      *xlogger.Logger
	svc         PredictionService
	rl          *ratelimit.Limiter
	defaultDays int
	upgrader    websocket.Upgrader
}

func NewPredictionStreamHandler(logger *xlogger.Logger, svc PredictionService, rl *ratelimit.Limiter, defaultDays int) *PredictionStreamHandler {
	metrics.Register()
	if logger == nil {
		logger = xlogger.Nop()
	}
	if defaultDays <= 0 {
		defaultDays = models.DefaultForecastDays
	}
	return &PredictionStreamHandler{
		logger:      logger,
		svc:         svc,
		rl:          rl,
		defaultDays: defaultDays,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  16 << 10,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
	}
}

func (h *PredictionStreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/predict", h.Serve)
}

type wsSession struct {
	id   string
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (s *wsSession) write(v interface{}) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return s.conn.WriteJSON(v)
}

func (s *wsSession) ping() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// Serve upgrades the connection and runs the read loop until the peer goes away.
func (h *PredictionStreamHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written an error response
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	s := &wsSession{id: uuid.NewString(), conn: conn}
	remote := c.RealIP()
	log := h.logger.With(xlogger.String("session", s.id), xlogger.String("remote", remote))

	metrics.StreamSessions.Inc()
	defer metrics.StreamSessions.Dec()
	log.Info("stream session opened")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.keepAlive(ctx, s)

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("stream read failed", xlogger.Error(err))
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var resp models.StreamResponse
		var req models.StreamRequest
		if err := json.Unmarshal(data, &req); err != nil {
			appErr := xhttp.BadRequestError("Malformed request frame.")
			metrics.EndpointErrors.WithLabelValues("ws_predict", appErr.Code).Inc()
			resp = models.StreamResponse{OK: false, Code: appErr.Code, Error: appErr.Message}
		} else {
			resp = h.answer(ctx, remote, req)
		}

		if err := s.write(resp); err != nil {
			log.Warn("stream write failed", xlogger.Error(err))
			break
		}
	}

	log.Info("stream session closed")
	return nil
}

func (h *PredictionStreamHandler) answer(ctx context.Context, remote string, req models.StreamRequest) models.StreamResponse {
	const endpoint = "ws_predict"
	start := time.Now()
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	failed := func(err error) models.StreamResponse {
		appErr := usecase.AppErrorFor(err)
		metrics.EndpointErrors.WithLabelValues(endpoint, appErr.Code).Inc()
		return models.StreamResponse{ID: id, OK: false, Code: appErr.Code, Error: appErr.Message}
	}

	if h.rl != nil && !h.rl.Allow(remote) {
		metrics.RateLimited.WithLabelValues(endpoint).Inc()
		return failed(xhttp.TooManyRequestsError("Too many requests. Please slow down."))
	}

	pr := &models.PredictRequest{Ticker: req.Ticker, Days: req.Days}
	if pr.Days == 0 {
		pr.Days = h.defaultDays
	}
	if err := xhttp.ValidateStruct(ctx, pr); err != nil {
		return failed(err)
	}

	res, err := h.svc.Predict(ctx, pr.Ticker, pr.Days)
	if err != nil {
		return failed(err)
	}
	out := models.ToResponse(res)
	return models.StreamResponse{ID: id, OK: true, Result: &out}
}

func (h *PredictionStreamHandler) keepAlive(ctx context.Context, s *wsSession) {
	t := time.NewTicker(wsPingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.ping(); err != nil {
				return
			}
		}
	}
}
