package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicHandler struct{}

func (panicHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/boom", func(echo.Context) error { panic("boom") })
	e.GET("/app-error", func(echo.Context) error {
		return NotFoundErrorf("no %s here", "thing")
	})
	e.GET("/plain-error", func(echo.Context) error { return errors.New("hidden detail") })
}

func serve(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, ErrorBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body ErrorBody
	if rec.Code >= 400 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestServer_ErrorBodies(t *testing.T) {
	s := NewServer([]Handler{panicHandler{}, nil}, WithMetrics(""))

	rec, body := serve(t, s, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ERR_INTERNAL", body.Code)
	assert.Equal(t, "Internal Server Error", body.Error)

	rec, body = serve(t, s, "/app-error")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ERR_NOT_FOUND", body.Code)
	assert.Equal(t, "no thing here", body.Message)

	rec, body = serve(t, s, "/plain-error")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, body.Error, "hidden detail")

	rec, body = serve(t, s, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ERR_HTTP", body.Code)
	assert.Equal(t, http.StatusNotFound, body.Status)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := NewServer(nil, WithHost("127.0.0.1"), WithCORS(false), WithMetrics("/metrics"))
	assert.Equal(t, "127.0.0.1", s.config.Host)
	assert.False(t, s.config.CORS)

	rec, _ := serve(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec, _ = serve(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type predictQuery struct {
	Ticker string `query:"ticker" validate:"required"`
	Days   int    `query:"days" default:"7" validate:"gte=1,lte=365"`
}

func TestValidateStruct(t *testing.T) {
	q := &predictQuery{Ticker: "AAPL"}
	require.NoError(t, ValidateStruct(context.Background(), q))
	assert.Equal(t, 7, q.Days)

	err := ValidateStruct(context.Background(), &predictQuery{Days: 3})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ERR_VALIDATION", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "ticker", appErr.Details[0].Field)
	assert.Equal(t, "ERR_REQUIRED", appErr.Details[0].Code)
	assert.Equal(t, "ticker is required", appErr.Message)

	err = ValidateStruct(context.Background(), &predictQuery{Ticker: "A", Days: 400})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "days must be less than or equal to 365", appErr.Message)
	assert.Equal(t, "365", appErr.Details[0].Params["max"])
}

func TestReadAndValidateRequest_BindFailure(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?ticker=AAPL&days=abc", nil), httptest.NewRecorder())

	var q predictQuery
	err := ReadAndValidateRequest(c, &q)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ERR_VALIDATION", appErr.Code)
}

func TestClient_SendAndParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/echo":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"ticker": r.URL.Query().Get("ticker"),
				"accept": r.Header.Get("Accept"),
			})
		default:
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte(`{"error":"short and stout"}`))
		}
	}))
	defer srv.Close()

	c := NewClient()

	var out map[string]string
	err := c.SendAndParse(context.Background(), &RequestOptions{
		Method:      MethodGet,
		URL:         srv.URL + "/echo",
		QueryParams: map[string][]string{"ticker": {"AAPL"}},
		Headers:     map[string]string{"Accept": "application/json"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", out["ticker"])
	assert.Equal(t, "application/json", out["accept"])

	err = c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL + "/teapot"}, &out)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTeapot, se.StatusCode)
	assert.Equal(t, "I'm a teapot", se.StatusText())
	assert.JSONEq(t, `{"error":"short and stout"}`, string(se.Body))

	require.NoError(t, c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL + "/echo"}, nil))
}
