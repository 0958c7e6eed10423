package llm

import (
	"context"
	"errors"
	"log/slog"

	"portfolio-backend/internal/guard"
	"portfolio-backend/internal/session"
)

const (
	maxOutputChars = 1500

	apologyMessage = "Sorry, I'm having trouble responding right now. Please try again."
)

// ErrUnavailable is returned when no model was configured at startup, e.g.
// because the API key is missing. Callers translate it into a user-facing
// unavailable message; the process keeps serving.
var ErrUnavailable = errors.New("llm service is not initialized")

// Service wraps the hosted model with input/output guards and per-session
// conversation history.
type Service struct {
	model         ChatModel // nil when the adapter is degraded
	modelName     string
	store         *session.Store
	maxInputChars int
	maxTurns      int
}

func NewService(model ChatModel, modelName string, store *session.Store, maxInputChars, maxTurns int) *Service {
	return &Service{
		model:         model,
		modelName:     modelName,
		store:         store,
		maxInputChars: maxInputChars,
		maxTurns:      maxTurns,
	}
}

// Ready reports whether a model is configured.
func (s *Service) Ready() bool { return s.model != nil }

// Model returns the configured model identifier for health reporting.
func (s *Service) Model() string { return s.modelName }

// Ask answers a one-off question without conversation history. Guard
// rejections are returned verbatim as the reply; upstream failures are logged
// and collapsed into a fixed apology so no provider detail leaks to the user.
func (s *Service) Ask(ctx context.Context, message string) (string, error) {
	if result := guard.Validate(message, s.maxInputChars); !result.Valid {
		return result.Message, nil
	}

	if s.model == nil {
		return "", ErrUnavailable
	}

	output, err := s.model.Generate(ctx, nil, message)
	if err != nil {
		slog.Error("llm ask failed", "error", err)
		return apologyMessage, nil
	}

	return guard.SanitizeOutput(output, maxOutputChars), nil
}

// Chat answers a message with the session's conversation history. The session
// is only updated after a successful exchange, so a failed call leaves no
// partial history behind.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (string, error) {
	if result := guard.Validate(message, s.maxInputChars); !result.Valid {
		return result.Message, nil
	}

	if s.model == nil {
		return "", ErrUnavailable
	}

	history := s.store.History(sessionID)

	output, err := s.model.Generate(ctx, history, message)
	if err != nil {
		slog.Error("llm chat failed", "session_id", sessionID, "error", err)
		return apologyMessage, nil
	}

	reply := guard.SanitizeOutput(output, maxOutputChars)
	s.store.AppendTurn(sessionID, message, reply)
	s.store.Trim(sessionID, s.maxTurns)

	return reply, nil
}

// ClearSession discards the session's history. Never fails.
func (s *Service) ClearSession(sessionID string) {
	s.store.Clear(sessionID)
	slog.Debug("cleared chat session", "session_id", sessionID)
}

// SessionHistory exposes the stored turns for the history endpoint.
func (s *Service) SessionHistory(sessionID string) []session.Message {
	return s.store.History(sessionID)
}
