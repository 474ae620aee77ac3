package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

type fakeWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type funcHandler struct {
	topic string
	calls int
	fn    func(int) error
}

func (h *funcHandler) Topic() string { return h.topic }

func (h *funcHandler) Handle(_ context.Context, _ []byte) error {
	h.calls++
	return h.fn(h.calls)
}

func testConsumer(retries int) (*Consumer, *fakeReader) {
	cfg := defaultConsumerConfig()
	cfg.RetryMax = retries
	cfg.BackoffMin = time.Millisecond
	cfg.BackoffMax = time.Millisecond
	c := newConsumer(cfg, nil)
	r := &fakeReader{}
	c.readers["prediction.requests"] = r
	return c, r
}

func TestProcess_SuccessCommits(t *testing.T) {
	c, r := testConsumer(2)
	h := &funcHandler{topic: "prediction.requests", fn: func(int) error { return nil }}
	c.RegisterHandler(h)

	res := c.process(&message{topic: h.topic, km: kafka.Message{Offset: 7, Value: []byte(`{}`)}})

	assert.Equal(t, resultOK, res)
	assert.Equal(t, 1, h.calls)
	require.Len(t, r.committed, 1)
	assert.Equal(t, int64(7), r.committed[0].Offset)
}

func TestProcess_RetriesThenSucceeds(t *testing.T) {
	c, r := testConsumer(3)
	h := &funcHandler{topic: "prediction.requests", fn: func(n int) error {
		if n < 3 {
			return errors.New("transient")
		}
		return nil
	}}
	c.RegisterHandler(h)

	res := c.process(&message{topic: h.topic, km: kafka.Message{Value: []byte(`{}`)}})

	assert.Equal(t, resultOK, res)
	assert.Equal(t, 3, h.calls)
	assert.Len(t, r.committed, 1)
}

func TestProcess_ExhaustedGoesToDLQ(t *testing.T) {
	c, r := testConsumer(1)
	dlq := &fakeWriter{}
	c.dlq = dlq
	c.cfg.DLQTopic = "prediction.requests.dlq"
	h := &funcHandler{topic: "prediction.requests", fn: func(int) error { return errors.New("boom") }}
	c.RegisterHandler(h)

	res := c.process(&message{topic: h.topic, km: kafka.Message{Key: []byte("AAPL"), Value: []byte(`{"ticker":"AAPL"}`)}})

	assert.Equal(t, resultDLQ, res)
	assert.Equal(t, 2, h.calls)
	require.Len(t, dlq.written, 1)
	assert.Equal(t, "prediction.requests.dlq", dlq.written[0].Topic)
	assert.Equal(t, []byte("AAPL"), dlq.written[0].Key)
	assert.Len(t, r.committed, 1, "dead-lettered message is committed")
}

func TestProcess_FailureWithoutDLQIsNotCommitted(t *testing.T) {
	c, r := testConsumer(0)
	h := &funcHandler{topic: "prediction.requests", fn: func(int) error { panic("bad payload") }}
	c.RegisterHandler(h)

	res := c.process(&message{topic: h.topic, km: kafka.Message{Value: []byte(`x`)}})

	assert.Equal(t, resultError, res)
	assert.Empty(t, r.committed)
}

func TestProcess_HookErrorSkipsHandler(t *testing.T) {
	c, _ := testConsumer(0)
	h := &funcHandler{topic: "prediction.requests", fn: func(int) error { return nil }}
	c.RegisterHandler(h)
	var onErr error
	c.WithConsumerHook(HookFuncs{
		Before: func(ctx context.Context, _ string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
			return ctx, km, data, &HookError{Code: "ERR_VALIDATION"}
		},
		Err: func(_ context.Context, _ string, _ kafka.Message, _ []byte, err error) { onErr = err },
	})

	res := c.process(&message{topic: h.topic, km: kafka.Message{}})

	assert.Equal(t, resultError, res)
	assert.Zero(t, h.calls)
	var he *HookError
	require.ErrorAs(t, onErr, &he)
	assert.Equal(t, "ERR_VALIDATION", he.Code)
}

func TestConsumer_StartStop(t *testing.T) {
	c, r := testConsumer(0)
	c.newReader = func(string) messageReader { return r }
	c.RegisterHandler(&funcHandler{topic: "prediction.requests", fn: func(int) error { return nil }})

	require.NoError(t, c.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, c.Stop(ctx))
	assert.NoError(t, c.Stop(ctx), "second stop is a no-op")
}

func TestConsumer_StartWithoutHandlers(t *testing.T) {
	c, _ := testConsumer(0)
	assert.Error(t, c.Start())
}

func TestHookChain_OrderAndPanic(t *testing.T) {
	var order []string
	mk := func(name string) ConsumerHook {
		return HookFuncs{
			Before: func(ctx context.Context, _ string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
				order = append(order, "before:"+name)
				return ctx, km, append(data, name...), nil
			},
			After: func(context.Context, string, kafka.Message, []byte, error) {
				order = append(order, "after:"+name)
			},
		}
	}
	chain := NewHookChain(mk("a"), nil, mk("b"))

	_, _, data, err := chain.BeforeHandle(context.Background(), "t", kafka.Message{}, nil)
	require.NoError(t, err)
	chain.AfterHandle(context.Background(), "t", kafka.Message{}, data, nil)

	assert.Equal(t, "ab", string(data))
	assert.Equal(t, []string{"before:a", "before:b", "after:b", "after:a"}, order)

	panicky := NewHookChain(HookFuncs{
		Before: func(context.Context, string, kafka.Message, []byte) (context.Context, kafka.Message, []byte, error) {
			panic("nope")
		},
	})
	_, _, _, err = panicky.BeforeHandle(context.Background(), "t", kafka.Message{}, nil)
	var he *HookError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "ERR_PANIC", he.Code)
}

func TestBackoffWithJitter(t *testing.T) {
	for attempt := 1; attempt < 70; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 100*time.Millisecond, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 100*time.Millisecond)
	}
}

func TestProducer_PublishEncodes(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "prediction.results", []byte("k"), map[string]int{"days": 7}))
	require.NoError(t, p.PublishMessage(context.Background(), "stockcast.logs", "raw"))

	require.Len(t, w.written, 2)
	assert.JSONEq(t, `{"days":7}`, string(w.written[0].Value))
	assert.Equal(t, "prediction.results", w.written[0].Topic)
	assert.Equal(t, "raw", string(w.written[1].Value))
	assert.Nil(t, w.written[1].Key)

	assert.Error(t, p.Publish(context.Background(), "", nil, "x"))

	w.err = errors.New("broker down")
	assert.ErrorContains(t, p.Publish(context.Background(), "t", nil, "x"), "broker down")
}
