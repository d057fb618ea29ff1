package llm

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single conversation message
type Message struct {
	Role    Role
	Content string
}

func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: text}
}

type StreamChunk struct {
	Content string
	Done    bool
	Error   error
	Usage   *Usage // Only populated on final chunk (Done=true)
}

type ChatRequest struct {
	Model     string
	Messages  []Message
	MaxTokens int
	// Temperature is a pointer so zero is expressible: nil means "use the
	// provider default", a set value is always sent, including 0.0.
	Temperature   *float64
	StopSequences []string
}

type ChatResponse struct {
	ID           string
	Content      string
	FinishReason string
	Usage        Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

type Provider interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	ChatStream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error)
}
