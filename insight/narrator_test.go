package insight_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"insightql/insight"
)

var _ = Describe("LLMNarrator", func() {
	envelope := insight.Envelope{Tasks: []insight.TaskResult{
		{
			TaskName: "Total Revenue",
			SQLQuery: "SELECT SUM(amount) AS total FROM transactions",
			Rows:     []insight.Row{{"total": 445.75}},
		},
	}}

	It("sends the question and the envelope JSON to the model", func() {
		provider := &fakeProvider{replies: []string{"**Overview**\nRevenue was 445.75."}}
		narrator := insight.NewLLMNarrator(provider, "test-model", 0.2, nil)

		answer, err := narrator.GenerateAnswer(context.Background(), "How much revenue?", envelope)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(ContainSubstring("445.75"))

		Expect(provider.requests).To(HaveLen(1))
		req := provider.requests[0]
		Expect(req.Temperature).NotTo(BeNil())
		Expect(*req.Temperature).To(Equal(0.2))

		prompt := req.Messages[len(req.Messages)-1].Content
		Expect(prompt).To(ContainSubstring("How much revenue?"))
		Expect(prompt).To(ContainSubstring(`"task_name"`))
		Expect(prompt).To(ContainSubstring("Total Revenue"))
	})

	It("streams chunks and returns the accumulated answer", func() {
		provider := &fakeProvider{replies: []string{"Revenue was strong this quarter."}}
		narrator := insight.NewLLMNarrator(provider, "test-model", 0.2, nil)

		var chunks []string
		answer, err := narrator.StreamAnswer(context.Background(), "q", envelope, func(chunk string) {
			chunks = append(chunks, chunk)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("Revenue was strong this quarter."))
		Expect(len(chunks)).To(BeNumerically(">=", 2))
		Expect(strings.Join(chunks, "")).To(Equal(answer))
	})

	It("handles an empty envelope", func() {
		provider := &fakeProvider{replies: []string{"No computed data was available."}}
		narrator := insight.NewLLMNarrator(provider, "test-model", 0.2, nil)

		answer, err := narrator.GenerateAnswer(context.Background(), "q", insight.Envelope{Tasks: []insight.TaskResult{}})
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).NotTo(BeEmpty())
	})
})
