package llm

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Session is a lightweight conversation wrapper around a Provider. The
// planner and narrator each use a fresh session per pipeline run.
type Session struct {
	provider      Provider
	model         string
	temperature   *float64
	systemPrompts []string
	messages      []Message
}

func NewSession(provider Provider, model string, systemPrompts ...string) *Session {
	return &Session{
		provider:      provider,
		model:         model,
		systemPrompts: systemPrompts,
		messages:      []Message{},
	}
}

func (s *Session) AddSystemPrompt(prompt string) {
	s.systemPrompts = append(s.systemPrompts, prompt)
}

// SetTemperature sets the sampling temperature for subsequent requests.
// 0.0 is a real setting, not "unset"; it is sent to the provider.
func (s *Session) SetTemperature(t float64) {
	s.temperature = &t
}

func (s *Session) GetHistory() []Message {
	return s.messages
}

func (s *Session) buildMessages(userMessage string) []Message {
	var msgs []Message

	for _, sp := range s.systemPrompts {
		msgs = append(msgs, Message{Role: RoleSystem, Content: sp})
	}

	msgs = append(msgs, s.messages...)
	msgs = append(msgs, NewTextMessage(RoleUser, userMessage))

	return msgs
}

func (s *Session) Send(ctx context.Context, userMessage string) (*ChatResponse, error) {
	req := &ChatRequest{
		Model:       s.model,
		Messages:    s.buildMessages(userMessage),
		Temperature: s.temperature,
	}

	resp, err := s.provider.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	s.messages = append(s.messages, NewTextMessage(RoleUser, userMessage))
	s.messages = append(s.messages, NewTextMessage(RoleAssistant, resp.Content))

	return resp, nil
}

func (s *Session) SendStream(ctx context.Context, userMessage string, onChunk func(StreamChunk)) (*ChatResponse, error) {
	req := &ChatRequest{
		Model:       s.model,
		Messages:    s.buildMessages(userMessage),
		Temperature: s.temperature,
	}

	stream, err := s.provider.ChatStream(ctx, req)
	if err != nil {
		return nil, err
	}

	var contentBuilder strings.Builder
	var lastChunk StreamChunk

	for chunk := range stream {
		if chunk.Error != nil {
			return nil, chunk.Error
		}

		contentBuilder.WriteString(chunk.Content)

		if onChunk != nil {
			onChunk(chunk)
		}

		lastChunk = chunk
	}

	content := contentBuilder.String()

	resp := &ChatResponse{
		ID:      uuid.New().String(),
		Content: content,
	}

	if lastChunk.Usage != nil {
		resp.Usage = *lastChunk.Usage
	}

	s.messages = append(s.messages, NewTextMessage(RoleUser, userMessage))
	s.messages = append(s.messages, NewTextMessage(RoleAssistant, content))

	return resp, nil
}
