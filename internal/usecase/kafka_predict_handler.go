package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"

	"github.com/google/uuid"
)

// KafkaPredictHandler answers prediction requests arriving on a topic.
// Business failures (unknown ticker, bad horizon) are replied to, not retried;
// only undecodable messages and publish failures surface as errors.
type KafkaPredictHandler struct {
	topic        string
	defaultReply string
	predictor    domsvc.Predictor
	replies      domrepo.ReplyPublisher
	metrics      domrepo.Metrics
	log          *applogger.Logger
}

func NewKafkaPredictHandler(topic, defaultReply string, predictor domsvc.Predictor, replies domrepo.ReplyPublisher, metrics domrepo.Metrics, log *applogger.Logger) *KafkaPredictHandler {
	if log == nil {
		log = applogger.Nop()
	}
	return &KafkaPredictHandler{
		topic:        topic,
		defaultReply: defaultReply,
		predictor:    predictor,
		replies:      replies,
		metrics:      metrics,
		log:          log,
	}
}

func (h *KafkaPredictHandler) Topic() string { return h.topic }

// incoming message schema: {request_id, ticker, days, reply_topic?}
func (h *KafkaPredictHandler) Handle(ctx context.Context, b []byte) error {
	var m models.PredictionRequestMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode prediction request: %w", err)
	}
	if m.RequestID == "" {
		m.RequestID = uuid.NewString()
	}
	if m.Days == 0 {
		m.Days = models.DefaultForecastDays
	}
	replyTopic := m.ReplyTopic
	if replyTopic == "" {
		replyTopic = h.defaultReply
	}

	start := time.Now()
	reply := &models.PredictionReplyMessage{RequestID: m.RequestID}
	r, err := h.predictor.Predict(ctx, m.Ticker, m.Days)
	h.metrics.RecordLatency("kafka_predict", time.Since(start).Seconds())
	if err != nil {
		appErr := AppErrorFor(err)
		reply.Code = appErr.Code
		reply.Error = appErr.Message
		h.log.Info("prediction request failed",
			applogger.String("request_id", m.RequestID),
			applogger.String("ticker", m.Ticker),
			applogger.String("code", appErr.Code),
			applogger.String("trace_id", pkgkafka.TraceIDFrom(ctx)),
		)
	} else {
		resp := models.ToResponse(r)
		reply.OK = true
		reply.Result = &resp
	}

	if err := h.replies.PublishReply(ctx, replyTopic, reply); err != nil {
		h.metrics.RecordError("reply_publish")
		return fmt.Errorf("publish reply %s: %w", m.RequestID, err)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaPredictHandler)(nil)
