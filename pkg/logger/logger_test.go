package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *recordingPublisher) snapshot() (string, [][]AggregatedLogEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.topic, append([][]AggregatedLogEntry(nil), p.batches...)
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Level: "info", Format: "json", Writer: &buf})
	require.NoError(t, err)

	l.With(String("component", "test")).Info("hello",
		Int("days", 7),
		Float64("price", 73.31),
		Bool("cached", true),
		Strings("tickers", []string{"AAPL"}),
		Duration("took", time.Second),
	)
	l.Debug("dropped below level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, float64(7), entry["days"])
	assert.Equal(t, 73.31, entry["price"])
	assert.Equal(t, true, entry["cached"])
	assert.Contains(t, entry, "caller")
	assert.NotContains(t, buf.String(), "dropped below level")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestCollector_AggregatesErrors(t *testing.T) {
	pub := &recordingPublisher{}
	l, err := New(&Config{Level: "error", Format: "json", Writer: &bytes.Buffer{}})
	require.NoError(t, err)

	// children made before the collector exists still feed it
	child := l.With(String("component", "kafka"))
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "stockcast.logs", Publisher: pub})
	for i := 0; i < 3; i++ {
		child.Error("publish failed", String("topic", "prediction.results"), Error(errors.New("broker down")))
	}
	l.Warn("not collected")
	assert.Equal(t, 1, l.sink.get().Pending())

	// closing flushes whatever is pending
	l.RemoveCollector()

	topic, batches := pub.snapshot()
	assert.Equal(t, "stockcast.logs", topic)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	assert.Equal(t, "publish failed", batches[0][0].Message)
	assert.Equal(t, 3, batches[0][0].Count)
	assert.Equal(t, "broker down", batches[0][0].Fields["error"])
}

func TestCollector_FlushesAtThreshold(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Topic: "t", Publisher: pub})

	c.AddLog("error", "a", nil, "x.go:1")
	c.AddLog("error", "b", nil, "x.go:2")
	assert.Zero(t, c.Pending())

	c.Close()
	_, batches := pub.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, "a", batches[0][0].Message)
	assert.Equal(t, "b", batches[0][1].Message)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("ignored")
	l.With(String("k", "v")).Info("ignored")
}
