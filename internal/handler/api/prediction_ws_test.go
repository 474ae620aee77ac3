package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/simulation"
	"StockCast/internal/usecase"
)

func dialStream(t *testing.T, h *PredictionStreamHandler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestEcho(h))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/predict"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func TestStream_AnswersInOrder(t *testing.T) {
	conn := dialStream(t, NewPredictionStreamHandler(nil, newTestService(), nil, 7))

	require.NoError(t, conn.WriteJSON(models.StreamRequest{ID: "a", Ticker: "aapl", Days: 7}))
	require.NoError(t, conn.WriteJSON(models.StreamRequest{ID: "b", Ticker: "MSFT", Days: 14}))

	var first, second models.StreamResponse
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))

	assert.Equal(t, "a", first.ID)
	assert.True(t, first.OK)
	require.NotNil(t, first.Result)
	assert.Equal(t, 73.31, first.Result.PredictedPriceForLastDay)

	assert.Equal(t, "b", second.ID)
	require.NotNil(t, second.Result)
	assert.Equal(t, 203.53, second.Result.PredictedPriceForLastDay)
}

func TestStream_DefaultsDaysAndID(t *testing.T) {
	conn := dialStream(t, NewPredictionStreamHandler(nil, newTestService(), nil, 7))

	require.NoError(t, conn.WriteJSON(map[string]string{"ticker": "TSLA"}))

	var resp models.StreamResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 7, resp.Result.ForecastDays)
}

func TestStream_ErrorsKeepSessionOpen(t *testing.T) {
	svc := newTestService(usecase.WithRejector(simulation.NewRandomRejector(1, nil)))
	conn := dialStream(t, NewPredictionStreamHandler(nil, svc, nil, 7))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var bad models.StreamResponse
	require.NoError(t, conn.ReadJSON(&bad))
	assert.False(t, bad.OK)
	assert.Equal(t, "ERR_BAD_REQUEST", bad.Code)

	require.NoError(t, conn.WriteJSON(models.StreamRequest{ID: "x", Ticker: ""}))
	var missing models.StreamResponse
	require.NoError(t, conn.ReadJSON(&missing))
	assert.Equal(t, "ERR_VALIDATION", missing.Code)

	require.NoError(t, conn.WriteJSON(models.StreamRequest{ID: "y", Ticker: "NOPE", Days: 7}))
	var unknown models.StreamResponse
	require.NoError(t, conn.ReadJSON(&unknown))
	assert.Equal(t, "y", unknown.ID)
	assert.Equal(t, "ERR_TICKER_NOT_FOUND", unknown.Code)
	assert.Equal(t, "Invalid ticker symbol: NOPE or no data found. Please try a known ticker.", unknown.Error)

	require.NoError(t, conn.WriteJSON(models.StreamRequest{ID: "z", Ticker: "AAPL", Days: 7}))
	var ok models.StreamResponse
	require.NoError(t, conn.ReadJSON(&ok))
	assert.True(t, ok.OK)
}
