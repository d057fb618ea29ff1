package insight

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"insightql/llm"
)

// Narrator turns the question and the unified envelope into the final
// natural-language answer. An empty envelope is a supported input.
type Narrator interface {
	GenerateAnswer(ctx context.Context, question string, envelope Envelope) (string, error)
	StreamAnswer(ctx context.Context, question string, envelope Envelope, onChunk func(string)) (string, error)
}

// LLMNarrator is the model-backed Narrator
type LLMNarrator struct {
	provider    llm.Provider
	modelID     string
	temperature float64
	logger      hclog.Logger
}

func NewLLMNarrator(provider llm.Provider, modelID string, temperature float64, logger hclog.Logger) *LLMNarrator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LLMNarrator{
		provider:    provider,
		modelID:     modelID,
		temperature: temperature,
		logger:      logger,
	}
}

func (n *LLMNarrator) GenerateAnswer(ctx context.Context, question string, envelope Envelope) (string, error) {
	session, prompt, err := n.prepare(question, envelope)
	if err != nil {
		return "", err
	}

	resp, err := session.Send(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return resp.Content, nil
}

func (n *LLMNarrator) StreamAnswer(ctx context.Context, question string, envelope Envelope, onChunk func(string)) (string, error) {
	session, prompt, err := n.prepare(question, envelope)
	if err != nil {
		return "", err
	}

	resp, err := session.SendStream(ctx, prompt, func(chunk llm.StreamChunk) {
		if chunk.Content != "" && onChunk != nil {
			onChunk(chunk.Content)
		}
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return resp.Content, nil
}

func (n *LLMNarrator) prepare(question string, envelope Envelope) (*llm.Session, string, error) {
	envelopeJSON, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("marshal envelope: %w", err)
	}

	session := llm.NewSession(n.provider, n.modelID, narratorSystemPrompt)
	session.SetTemperature(n.temperature)

	return session, buildNarratorPrompt(question, string(envelopeJSON)), nil
}
