package intake

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/respira/respira/internal/domain/airquality"
	"github.com/respira/respira/internal/domain/anomaly"
	"github.com/respira/respira/internal/domain/auditevent"
	"github.com/respira/respira/internal/domain/chat"
	"github.com/respira/respira/internal/domain/record"
	"github.com/respira/respira/internal/domain/trust"
	"github.com/respira/respira/internal/platform/debounce"
	"github.com/respira/respira/internal/platform/upstream"
)

// Predictor is the slice of the upstream client the intake domain calls.
type Predictor interface {
	Predict(ctx context.Context, req upstream.PredictRequest) (upstream.PredictResult, error)
	SearchPatients(ctx context.Context, query string) ([]upstream.PatientRef, error)
}

// Recorder receives the audit side-effect of a completed prediction.
type Recorder interface {
	Record(ctx context.Context, action, actor, entityKind, entityID, outcome, detail string)
}

// AirQualityCard pairs the environmental sample with its classification.
type AirQualityCard struct {
	Sample         airquality.Sample         `json:"sample"`
	Classification airquality.Classification `json:"classification"`
}

// AnomalyCard summarizes the anomaly signal for one prediction.
type AnomalyCard struct {
	Eligible        bool     `json:"eligible"`
	IsOutlier       bool     `json:"is_outlier"`
	AnomalyScore    float64  `json:"anomaly_score"`
	FlaggedFeatures []string `json:"flagged_features"`
}

// ResultCard is the assembled prediction view returned to the dashboard.
type ResultCard struct {
	RiskScore  float64        `json:"risk_score"`
	Trust      trust.Display  `json:"trust"`
	AirQuality AirQualityCard `json:"air_quality"`
	Anomaly    AnomalyCard    `json:"anomaly"`
	Greeting   string         `json:"greeting"`
}

type Service struct {
	predictor  Predictor
	transcript *chat.Transcript
	audit      Recorder
	lookup     *debounce.Debouncer[[]upstream.PatientRef]
	logger     zerolog.Logger
}

// NewService wires the intake flow around a shared transcript and a single
// lookup debouncer. Both assume one operator per server process, matching the
// single browser profile the dashboard is built for.
func NewService(predictor Predictor, transcript *chat.Transcript, audit Recorder, lookupDelay time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		predictor:  predictor,
		transcript: transcript,
		audit:      audit,
		lookup:     debounce.New[[]upstream.PatientRef](lookupDelay),
		logger:     logger,
	}
}

// Predict validates the intake, asks the model service for a prediction and
// assembles the result card. On success the chat transcript is reset to the
// new patient context and a prediction.create audit event is recorded.
func (s *Service) Predict(ctx context.Context, in Intake, actor string) (ResultCard, error) {
	if err := in.Validate(); err != nil {
		return ResultCard{}, err
	}

	result, err := s.predictor.Predict(ctx, upstream.PredictRequest{
		PatientID:         in.PatientID,
		PatientName:       in.PatientName,
		Age:               in.Age,
		FEV1:              in.FEV1,
		PEF:               in.PEF,
		SpO2:              in.SpO2,
		ZipCode:           in.ZipCode,
		Gender:            in.Gender,
		Smoking:           in.Smoking,
		Wheezing:          in.Wheezing,
		ShortnessOfBreath: in.ShortnessOfBreath,
		HeightCM:          in.HeightCM,
		WeightKG:          in.WeightKG,
		MedicationUse:     in.MedicationUse,
	})
	if err != nil {
		s.audit.Record(ctx, auditevent.ActionPredictionCreate, actor, "prediction", "", auditevent.OutcomeFailure, err.Error())
		return ResultCard{}, err
	}

	card := s.assemble(in, result)
	s.transcript.Reset(card.Greeting)
	s.audit.Record(ctx, auditevent.ActionPredictionCreate, actor, "prediction", in.PatientID, auditevent.OutcomeSuccess, "")
	return card, nil
}

func (s *Service) assemble(in Intake, result upstream.PredictResult) ResultCard {
	sample := airquality.FallbackSample(in.ZipCode)
	if result.Environmental != nil {
		sample = *result.Environmental
	} else {
		s.logger.Warn().Str("zip", in.ZipCode).Msg("environmental data missing, using fallback sample")
	}

	eligible := anomaly.Eligible(record.PredictionRecord{
		RiskScore:   result.RiskScore,
		TrustRating: result.TrustRating,
	})

	return ResultCard{
		RiskScore: result.RiskScore,
		Trust: trust.Evaluate(trust.Signal{
			RiskScore:   result.RiskScore,
			LowerBound:  result.LowerBound,
			UpperBound:  result.UpperBound,
			TrustRating: result.TrustRating,
		}),
		AirQuality: AirQualityCard{
			Sample:         sample,
			Classification: sample.Classify(),
		},
		Anomaly: AnomalyCard{
			Eligible:        eligible,
			IsOutlier:       result.IsOutlier,
			AnomalyScore:    result.AnomalyScore,
			FlaggedFeatures: result.FlaggedFeatures,
		},
		Greeting: Greeting(result.RiskScore),
	}
}

// Greeting is the transcript opener shown after a fresh prediction.
func Greeting(riskScore float64) string {
	pct := int(math.Round(riskScore * 100))
	return fmt.Sprintf("I've analyzed the patient profile (Risk: %d%%). Ask me about the key drivers.", pct)
}

// Lookup searches returning patients through the debouncer: rapid successive
// queries cancel their predecessors and only the latest one reaches the
// upstream service.
func (s *Service) Lookup(ctx context.Context, query string) ([]upstream.PatientRef, error) {
	return s.lookup.Submit(ctx, func(ctx context.Context) ([]upstream.PatientRef, error) {
		return s.predictor.SearchPatients(ctx, query)
	})
}
