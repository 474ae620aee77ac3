package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

// APIError is a non-2xx answer from the prediction service, reduced to the
// one message a user should see.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// PredictionClient calls a StockCast server.
type PredictionClient struct {
	baseURL string
	http    *xhttp.Client
}

func NewPredictionClient(baseURL string, opts ...xhttp.ClientOption) *PredictionClient {
	return &PredictionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(opts...),
	}
}

// Predict fetches the forecast for ticker over days.
func (c *PredictionClient) Predict(ctx context.Context, ticker string, days int) (*models.PredictionResponse, error) {
	var out models.PredictionResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/api/predict",
		QueryParams: map[string][]string{
			"ticker": {ticker},
			"days":   {strconv.Itoa(days)},
		},
		Headers: map[string]string{"Accept": "application/json"},
	}, &out)
	if err != nil {
		return nil, translate(err, ticker)
	}
	return &out, nil
}

// Tickers fetches the suggested symbols and accepted horizons.
func (c *PredictionClient) Tickers(ctx context.Context) (*models.TickersResponse, error) {
	var out models.TickersResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/api/tickers",
	}, &out)
	if err != nil {
		return nil, translate(err, "")
	}
	return &out, nil
}

// translate prefers the body's error, then its message. Without a parseable
// body it falls back to the status text, and a 404 that does not name the
// ticker gets a ticker-specific message.
func translate(err error, ticker string) error {
	var se *xhttp.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("prediction service unreachable: %w", err)
	}

	apiErr := &APIError{StatusCode: se.StatusCode}
	fallback := fmt.Sprintf("API Error: %d", se.StatusCode)

	var body struct {
		Code    string `json:"code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if jerr := json.Unmarshal(se.Body, &body); jerr == nil {
		apiErr.Code = body.Code
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Message != "":
			apiErr.Message = body.Message
		default:
			apiErr.Message = fallback
		}
		return apiErr
	}

	apiErr.Message = se.StatusText()
	if apiErr.Message == "" {
		apiErr.Message = fallback
	}
	if se.StatusCode == http.StatusNotFound && !strings.Contains(apiErr.Message, ticker) {
		apiErr.Message = fmt.Sprintf("Data not found for ticker: %s. It might be an invalid symbol.", ticker)
	}
	return apiErr
}
