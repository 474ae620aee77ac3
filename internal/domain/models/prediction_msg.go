package models

// Kafka request/reply envelopes for asynchronous predictions.

type PredictionRequestMessage struct {
	RequestID  string `json:"request_id"`
	Ticker     string `json:"ticker"`
	Days       int    `json:"days"`
	ReplyTopic string `json:"reply_topic,omitempty"`
}

type PredictionReplyMessage struct {
	RequestID string              `json:"request_id"`
	OK        bool                `json:"ok"`
	Error     string              `json:"error,omitempty"`
	Code      string              `json:"code,omitempty"`
	Result    *PredictionResponse `json:"result,omitempty"`
}

// WebSocket frames.

type StreamRequest struct {
	ID     string `json:"id,omitempty"`
	Ticker string `json:"ticker"`
	Days   int    `json:"days"`
}

type StreamResponse struct {
	ID     string              `json:"id"`
	OK     bool                `json:"ok"`
	Error  string              `json:"error,omitempty"`
	Code   string              `json:"code,omitempty"`
	Result *PredictionResponse `json:"result,omitempty"`
}
