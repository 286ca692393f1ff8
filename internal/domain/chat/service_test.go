package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/respira/respira/internal/platform/upstream"
)

type fakeExplainer struct {
	response string
	err      error
	lastReq  upstream.ExplainRequest
}

func (f *fakeExplainer) Explain(_ context.Context, req upstream.ExplainRequest) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

func TestService_Send_ParsesReplyAndSwapsChips(t *testing.T) {
	raw := "Risk is driven by FEV1.\n---\nSUGGESTED_QUESTIONS\n- What about PEF?\n- Environmental factors?"
	explainer := &fakeExplainer{response: raw}
	svc := NewService(explainer, NewTranscript())

	turn, err := svc.Send(context.Background(), "Why is the risk high?", map[string]any{"fev1": 1.2}, 0.72)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if turn.Message.Role != RoleAssistant {
		t.Errorf("Role = %q, want assistant", turn.Message.Role)
	}
	if turn.Message.Text != "Risk is driven by FEV1." {
		t.Errorf("Text = %q, want stripped body", turn.Message.Text)
	}
	if len(turn.Suggestions) != 2 {
		t.Fatalf("len(Suggestions) = %d, want 2", len(turn.Suggestions))
	}
	if turn.Suggestions[0] != "What about PEF?" {
		t.Errorf("Suggestions[0] = %q", turn.Suggestions[0])
	}
	if explainer.lastReq.RiskScore != 0.72 {
		t.Errorf("forwarded RiskScore = %v, want 0.72", explainer.lastReq.RiskScore)
	}
}

func TestService_Send_KeepsChipsWhenSentinelAbsent(t *testing.T) {
	explainer := &fakeExplainer{response: "Plain answer with no chips."}
	svc := NewService(explainer, NewTranscript())

	turn, err := svc.Send(context.Background(), "Treatment Plan", nil, 0.3)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(turn.Suggestions) != len(DefaultSuggestions) {
		t.Fatalf("len(Suggestions) = %d, want default %d", len(turn.Suggestions), len(DefaultSuggestions))
	}
	for i, want := range DefaultSuggestions {
		if turn.Suggestions[i] != want {
			t.Errorf("Suggestions[%d] = %q, want %q", i, turn.Suggestions[i], want)
		}
	}
}

func TestService_Send_RecordsBothSidesOfTheTurn(t *testing.T) {
	svc := NewService(&fakeExplainer{response: "Answer."}, NewTranscript())

	if _, err := svc.Send(context.Background(), "Question?", nil, 0.5); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	messages, _ := svc.History()
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Text != "Question?" {
		t.Errorf("messages[0] = %+v, want user question", messages[0])
	}
	if messages[1].Role != RoleAssistant || messages[1].Text != "Answer." {
		t.Errorf("messages[1] = %+v, want assistant answer", messages[1])
	}
}

func TestService_Send_UpstreamFailureLeavesQuestionRecorded(t *testing.T) {
	boom := &upstream.Error{Op: "explain", Status: 502}
	svc := NewService(&fakeExplainer{err: boom}, NewTranscript())

	_, err := svc.Send(context.Background(), "Question?", nil, 0.5)
	if !errors.Is(err, boom) {
		t.Fatalf("Send() error = %v, want %v", err, boom)
	}

	messages, _ := svc.History()
	if len(messages) != 1 || messages[0].Role != RoleUser {
		t.Errorf("messages = %+v, want only the user question", messages)
	}
}
