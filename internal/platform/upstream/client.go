// Package upstream is the typed client for the remote prediction service.
// The service's output is not contractually validated, so every response
// passes through the record/airquality boundary types before anything
// downstream sees it.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/respira/respira/internal/domain/airquality"
	"github.com/respira/respira/internal/domain/record"
	"github.com/respira/respira/internal/platform/cache"
)

// Stats is the dashboard overview rollup served by the backend.
type Stats struct {
	TotalPatients int     `json:"total_patients"`
	HighRiskCount int     `json:"high_risk_count"`
	AvgFEV1       float64 `json:"avg_fev1"`
}

// PredictRequest carries the validated intake fields to the model service.
type PredictRequest struct {
	PatientID         string  `json:"patient_id,omitempty"`
	PatientName       string  `json:"patient_name"`
	Age               int     `json:"age"`
	FEV1              float64 `json:"fev1"`
	PEF               float64 `json:"pef"`
	SpO2              float64 `json:"spo2"`
	ZipCode           string  `json:"zip_code"`
	Gender            string  `json:"gender"`
	Smoking           string  `json:"smoking"`
	Wheezing          bool    `json:"wheezing"`
	ShortnessOfBreath bool    `json:"shortness_of_breath"`
	HeightCM          float64 `json:"height,omitempty"`
	WeightKG          float64 `json:"weight,omitempty"`
	MedicationUse     bool    `json:"medication_use"`
}

// PredictResult is the normalized prediction payload.
type PredictResult struct {
	RiskScore       float64
	LowerBound      float64
	UpperBound      float64
	TrustRating     record.Rating
	Environmental   *airquality.Sample
	IsOutlier       bool
	AnomalyScore    float64
	FlaggedFeatures []string
}

// ExplainRequest asks the explanation service about the current prediction.
type ExplainRequest struct {
	Query     string         `json:"query"`
	Features  map[string]any `json:"features"`
	RiskScore float64        `json:"risk_score"`
}

// PatientRef is one returning-patient lookup hit.
type PatientRef struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
}

// Error wraps a failed upstream call with enough context to map it to a
// transient-failure response.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client talks to the prediction backend. History and stats responses are
// cached for a short TTL; mutating calls never are.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, c cache.Cache, cacheTTL time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &Error{Op: op, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &Error{Op: op, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) cached(ctx context.Context, key string, out any) bool {
	if c.cache == nil {
		return false
	}
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *Client) store(ctx context.Context, key string, v any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// History fetches the full record stream, validating each row at the
// boundary. Invalid rows are dropped with a warning; the count of drops is
// returned so handlers can surface it in response metadata.
func (c *Client) History(ctx context.Context) ([]record.PredictionRecord, int, error) {
	var payload struct {
		Data []record.RawRecord `json:"data"`
	}

	const key = "upstream:history"
	if !c.cached(ctx, key, &payload) {
		if err := c.getJSON(ctx, "history", "/history", &payload); err != nil {
			return nil, 0, err
		}
		c.store(ctx, key, payload)
	}

	records, errs := record.ParseAll(payload.Data)
	for _, err := range errs {
		c.logger.Warn().Err(err).Msg("dropped malformed history record")
	}
	return records, len(errs), nil
}

// Stats fetches the overview rollup, cached like History.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var payload struct {
		Data Stats `json:"data"`
	}

	const key = "upstream:stats"
	if !c.cached(ctx, key, &payload) {
		if err := c.getJSON(ctx, "stats", "/stats", &payload); err != nil {
			return Stats{}, err
		}
		c.store(ctx, key, payload)
	}
	return payload.Data, nil
}

// Predict submits an intake and normalizes the model's response.
func (c *Client) Predict(ctx context.Context, req PredictRequest) (PredictResult, error) {
	var payload struct {
		Data struct {
			Prediction struct {
				RiskScore float64 `json:"risk_score"`
			} `json:"prediction"`
			TrustSignal struct {
				PredictionInterval struct {
					LowerBound float64 `json:"lower_bound"`
					UpperBound float64 `json:"upper_bound"`
				} `json:"prediction_interval"`
				TrustRating string `json:"trust_rating"`
			} `json:"trust_signal"`
			EnvironmentalData *airquality.Sample `json:"environmental_data"`
			AnomalyDetection  struct {
				IsOutlier       bool     `json:"is_outlier"`
				AnomalyScore    float64  `json:"anomaly_score"`
				FlaggedFeatures []string `json:"flagged_features"`
			} `json:"anomaly_detection"`
		} `json:"data"`
	}

	if err := c.postJSON(ctx, "predict", "/predict", req, &payload); err != nil {
		return PredictResult{}, err
	}

	d := payload.Data
	result := PredictResult{
		RiskScore:       d.Prediction.RiskScore,
		LowerBound:      d.TrustSignal.PredictionInterval.LowerBound,
		UpperBound:      d.TrustSignal.PredictionInterval.UpperBound,
		TrustRating:     record.NormalizeRating(d.TrustSignal.TrustRating),
		IsOutlier:       d.AnomalyDetection.IsOutlier,
		AnomalyScore:    d.AnomalyDetection.AnomalyScore,
		FlaggedFeatures: d.AnomalyDetection.FlaggedFeatures,
	}
	if d.EnvironmentalData != nil {
		normalized := d.EnvironmentalData.Normalize()
		result.Environmental = &normalized
	}
	return result, nil
}

// Explain sends one chat turn to the explanation service and returns the raw
// response text; the chat parser owns its structure.
func (c *Client) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	var payload struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, "explain", "/explain", req, &payload); err != nil {
		return "", err
	}
	return payload.Data.Text, nil
}

// SearchPatients looks up returning patients for intake prefill.
func (c *Client) SearchPatients(ctx context.Context, query string) ([]PatientRef, error) {
	var refs []PatientRef
	path := "/patients?query=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, "patients", path, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}
