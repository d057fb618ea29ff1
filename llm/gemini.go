package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	model := p.buildModel(req)

	chat := model.StartChat()
	chat.History = p.convertHistory(req.Messages)

	resp, err := chat.SendMessage(ctx, genai.Text(p.lastUserMessage(req.Messages)))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	out := &ChatResponse{
		ID:           uuid.New().String(),
		Content:      p.extractContent(resp),
		FinishReason: string(resp.Candidates[0].FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

func (p *GeminiProvider) ChatStream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	model := p.buildModel(req)

	chat := model.StartChat()
	chat.History = p.convertHistory(req.Messages)

	iter := chat.SendMessageStream(ctx, genai.Text(p.lastUserMessage(req.Messages)))

	chunks := make(chan StreamChunk)

	go func() {
		defer close(chunks)

		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				chunks <- StreamChunk{Done: true}
				break
			}
			if err != nil {
				chunks <- StreamChunk{Error: err, Done: true}
				break
			}

			content := p.extractContent(resp)
			if content != "" {
				chunks <- StreamChunk{Content: content}
			}
		}
	}()

	return chunks, nil
}

func (p *GeminiProvider) buildModel(req *ChatRequest) *genai.GenerativeModel {
	model := p.client.GenerativeModel(req.Model)

	if system := p.extractSystemPrompts(req.Messages); system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	if req.Temperature != nil {
		model.SetTemperature(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	return model
}

func (p *GeminiProvider) extractSystemPrompts(messages []Message) string {
	var system string
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		}
	}
	return system
}

// convertHistory maps prior turns to Gemini content, excluding system
// messages and the final user message (sent separately)
func (p *GeminiProvider) convertHistory(messages []Message) []*genai.Content {
	nonSystem := make([]Message, 0)
	for _, m := range messages {
		if m.Role != RoleSystem {
			nonSystem = append(nonSystem, m)
		}
	}

	if len(nonSystem) > 0 {
		nonSystem = nonSystem[:len(nonSystem)-1]
	}

	var history []*genai.Content
	for _, m := range nonSystem {
		var role string
		switch m.Role {
		case RoleUser:
			role = "user"
		case RoleAssistant:
			role = "model"
		default:
			continue
		}

		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	return history
}

func (p *GeminiProvider) lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func (p *GeminiProvider) extractContent(resp *genai.GenerateContentResponse) string {
	var content string
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				content += fmt.Sprintf("%v", part)
			}
		}
	}
	return content
}
