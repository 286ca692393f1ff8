package chat

import (
	"context"

	"github.com/respira/respira/internal/platform/upstream"
)

// Explainer is the slice of the upstream client the chat domain depends on.
type Explainer interface {
	Explain(ctx context.Context, req upstream.ExplainRequest) (string, error)
}

// Turn is one completed exchange: the assistant reply plus the chips to show.
type Turn struct {
	Message     Message  `json:"message"`
	Suggestions []string `json:"suggestions"`
}

type Service struct {
	explainer  Explainer
	transcript *Transcript
}

func NewService(explainer Explainer, transcript *Transcript) *Service {
	return &Service{explainer: explainer, transcript: transcript}
}

// Send runs one chat turn: record the clinician's question, ask the
// explanation service, parse the reply, and swap the suggestion chips only
// when the reply carried new ones.
func (s *Service) Send(ctx context.Context, query string, features map[string]any, riskScore float64) (Turn, error) {
	s.transcript.Append(RoleUser, query)

	raw, err := s.explainer.Explain(ctx, upstream.ExplainRequest{
		Query:     query,
		Features:  features,
		RiskScore: riskScore,
	})
	if err != nil {
		return Turn{}, err
	}

	parsed := ParseResponse(raw)
	msg := s.transcript.Append(RoleAssistant, parsed.Body)
	s.transcript.SetSuggestions(parsed.Suggestions)

	return Turn{Message: msg, Suggestions: s.transcript.Suggestions()}, nil
}

// History returns the transcript so far.
func (s *Service) History() ([]Message, []string) {
	return s.transcript.Messages(), s.transcript.Suggestions()
}
