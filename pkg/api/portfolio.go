package api

// Response kinds understood by the terminal frontend.
const (
	KindText      = "text"
	KindDownload  = "download"
	KindClear     = "clear"
	KindChatStart = "chat_start"
	KindChatEnd   = "chat_end"
	KindAI        = "ai"
	KindError     = "error"
	KindSuccess   = "success"
)

// Response is the envelope returned by every command and chat endpoint.
// Errors are encoded in Kind, not in the HTTP status code.
type Response struct {
	Kind      string `json:"kind"`
	Output    string `json:"output"`
	URL       string `json:"url,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type ClearSessionRequest struct {
	SessionID string `json:"session_id"`
}

type ChatHistoryRequest struct {
	SessionID string `schema:"session_id,required"`
}

type ChatHistoryItem struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

type ChatHistoryResponse struct {
	SessionID string            `json:"session_id"`
	Turns     []ChatHistoryItem `json:"turns"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	LLMInitialized bool   `json:"llm_initialized"`
	LLMModel       string `json:"llm_model"`
}
