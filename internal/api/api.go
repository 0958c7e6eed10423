package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolio-backend/internal/command"
	"portfolio-backend/internal/llm"
	"portfolio-backend/pkg/api"
)

const (
	serviceName        = "portfolio-backend"
	cvDownloadFilename = "benjamin_jones_cv.pdf"
)

// PortfolioService exposes the terminal command dispatcher and the chat
// assistant over HTTP. Every command/chat failure is encoded in the response
// envelope; the transport status stays 200.
type PortfolioService struct {
	registry *command.Registry
	llm      *llm.Service
	limiter  *RateLimiter
	cvPath   string
}

func NewPortfolioService(registry *command.Registry, llmService *llm.Service, limiter *RateLimiter, cvPath string) *PortfolioService {
	return &PortfolioService{
		registry: registry,
		llm:      llmService,
		limiter:  limiter,
		cvPath:   cvPath,
	}
}

func (s *PortfolioService) AddRoutes(r chi.Router) {
	r.Post("/command", RestHandler(s.ProcessCommand))
	r.Route("/chat", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Post("/", RestHandler(s.Chat))
		r.Post("/clear", RestHandler(s.ClearSession))
		r.Get("/history", RestHandler(s.GetHistory))
	})
	r.Get("/download/cv", s.DownloadCV)
	r.Get("/healthz", RestHandler(s.Health))
}

func (s *PortfolioService) ProcessCommand(r *http.Request) (any, error) {
	req, err := ParseRequest[api.CommandRequest](r)
	if err != nil {
		return nil, err
	}

	return s.registry.Dispatch(r.Context(), req.Command), nil
}

func (s *PortfolioService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply, err := s.llm.Chat(r.Context(), sessionID, req.Message)
	if err != nil {
		// Degraded adapter: report unavailability in the envelope, not a 5xx.
		return api.Response{
			Kind:      api.KindError,
			Output:    "AI assistant is unavailable right now. Please try again later.",
			SessionID: sessionID,
		}, nil
	}

	return api.Response{Kind: api.KindAI, Output: reply, SessionID: sessionID}, nil
}

func (s *PortfolioService) ClearSession(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ClearSessionRequest](r)
	if err != nil {
		return nil, err
	}

	s.llm.ClearSession(req.SessionID)

	return api.Response{Kind: api.KindSuccess, Output: "Conversation cleared."}, nil
}

func (s *PortfolioService) GetHistory(r *http.Request) (any, error) {
	req, err := ParseRequestQueryParams[api.ChatHistoryRequest](r)
	if err != nil {
		return nil, err
	}

	turns := []api.ChatHistoryItem{}
	for _, msg := range s.llm.SessionHistory(req.SessionID) {
		turns = append(turns, api.ChatHistoryItem{Role: msg.Role, Content: msg.Content})
	}

	return api.ChatHistoryResponse{SessionID: req.SessionID, Turns: turns}, nil
}

func (s *PortfolioService) DownloadCV(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.cvPath); err != nil {
		WriteJsonResponse(w, api.Response{
			Kind:   api.KindError,
			Output: "CV file missing. Replace 'static/files/demo_cv.pdf' with your actual resume.",
		})
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+cvDownloadFilename+`"`)
	http.ServeFile(w, r, s.cvPath)
}

func (s *PortfolioService) Health(r *http.Request) (any, error) {
	return api.HealthResponse{
		Status:         "ok",
		Service:        serviceName,
		LLMInitialized: s.llm.Ready(),
		LLMModel:       s.llm.Model(),
	}, nil
}
