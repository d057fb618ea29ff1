package llm

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// A planner running deterministically at temperature 0.0 is a real
// configuration, so zero must reach the provider rather than falling
// through to the provider's own default.
var _ = Describe("Temperature handling", func() {
	zero := 0.0
	warm := 0.7

	request := func(t *float64) *ChatRequest {
		return &ChatRequest{
			Model:       "test-model",
			Messages:    []Message{NewTextMessage(RoleUser, "hi")},
			Temperature: t,
		}
	}

	Describe("Session", func() {
		It("sends an explicit 0.0 with the request", func() {
			provider := &recordingProvider{}
			session := NewSession(provider, "test-model")
			session.SetTemperature(0.0)

			_, err := session.Send(context.Background(), "hi")
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.requests[0].Temperature).NotTo(BeNil())
			Expect(*provider.requests[0].Temperature).To(Equal(0.0))
		})

		It("leaves temperature unset when never configured", func() {
			provider := &recordingProvider{}
			session := NewSession(provider, "test-model")

			_, err := session.Send(context.Background(), "hi")
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.requests[0].Temperature).To(BeNil())
		})
	})

	Describe("OpenAIProvider", func() {
		provider := &OpenAIProvider{}

		It("sends a configured 0.0", func() {
			params := provider.buildParams(request(&zero))
			Expect(params.Temperature.Valid()).To(BeTrue())
			Expect(params.Temperature.Value).To(Equal(0.0))
		})

		It("sends non-zero values", func() {
			params := provider.buildParams(request(&warm))
			Expect(params.Temperature.Value).To(Equal(0.7))
		})

		It("omits an unset temperature", func() {
			params := provider.buildParams(request(nil))
			Expect(params.Temperature.Valid()).To(BeFalse())
		})
	})

	Describe("AnthropicProvider", func() {
		provider := &AnthropicProvider{}

		It("sends a configured 0.0", func() {
			params := provider.buildParams(request(&zero))
			Expect(params.Temperature.Valid()).To(BeTrue())
			Expect(params.Temperature.Value).To(Equal(0.0))
		})

		It("omits an unset temperature", func() {
			params := provider.buildParams(request(nil))
			Expect(params.Temperature.Valid()).To(BeFalse())
		})
	})

	Describe("GeminiProvider", func() {
		It("sends a configured 0.0", func() {
			provider, err := NewGeminiProvider(context.Background(), "test-key")
			Expect(err).NotTo(HaveOccurred())
			defer provider.Close()

			model := provider.buildModel(request(&zero))
			Expect(model.Temperature).NotTo(BeNil())
			Expect(*model.Temperature).To(Equal(float32(0)))
		})

		It("omits an unset temperature", func() {
			provider, err := NewGeminiProvider(context.Background(), "test-key")
			Expect(err).NotTo(HaveOccurred())
			defer provider.Close()

			model := provider.buildModel(request(nil))
			Expect(model.Temperature).To(BeNil())
		})
	})
})
