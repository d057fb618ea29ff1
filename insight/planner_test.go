package insight_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"insightql/insight"
)

const plannedTasksJSON = `{
  "tasks": [
    {
      "task_name": "Total Revenue",
      "task_description": "Sum all transaction amounts",
      "sql_query": "SELECT SUM(amount) AS total FROM transactions"
    },
    {
      "task_name": "Top Region",
      "task_description": "Region with the highest revenue",
      "sql_query": "SELECT region, SUM(amount) AS total FROM transactions GROUP BY region ORDER BY total DESC LIMIT 1"
    }
  ]
}`

var _ = Describe("LLMPlanner", func() {
	newPlanner := func(provider *fakeProvider) *insight.LLMPlanner {
		return insight.NewLLMPlanner(provider, "test-model", "transactions", 0.0, 4, nil)
	}

	It("parses a fenced JSON task plan", func() {
		provider := &fakeProvider{replies: []string{
			"Here is the plan:\n```json\n" + plannedTasksJSON + "\n```\nLet me know if you need more.",
		}}

		specs, err := newPlanner(provider).PlanTasks(context.Background(), "How much revenue?", "schema")
		Expect(err).NotTo(HaveOccurred())
		Expect(specs).To(HaveLen(2))
		Expect(specs[0].TaskName).To(Equal("Total Revenue"))
		Expect(specs[1].SQLQuery).To(ContainSubstring("GROUP BY region"))
	})

	It("parses bare JSON surrounded by prose", func() {
		provider := &fakeProvider{replies: []string{
			"Sure! " + plannedTasksJSON + " Hope that helps.",
		}}

		specs, err := newPlanner(provider).PlanTasks(context.Background(), "q", "schema")
		Expect(err).NotTo(HaveOccurred())
		Expect(specs).To(HaveLen(2))
	})

	It("names unnamed tasks", func() {
		provider := &fakeProvider{replies: []string{
			`{"tasks": [{"task_description": "no name given", "sql_query": "SELECT 1"}]}`,
		}}

		specs, err := newPlanner(provider).PlanTasks(context.Background(), "q", "schema")
		Expect(err).NotTo(HaveOccurred())
		Expect(specs[0].TaskName).To(Equal("Unnamed Task"))
	})

	It("fails when the output contains no JSON object", func() {
		provider := &fakeProvider{replies: []string{"I cannot answer that."}}

		_, err := newPlanner(provider).PlanTasks(context.Background(), "q", "schema")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("no JSON object"))
	})

	It("fails on malformed JSON", func() {
		provider := &fakeProvider{replies: []string{`{"tasks": [`}}

		_, err := newPlanner(provider).PlanTasks(context.Background(), "q", "schema")
		Expect(err).To(HaveOccurred())
	})

	It("sends the schema and table name with the configured temperature", func() {
		provider := &fakeProvider{replies: []string{plannedTasksJSON}}
		planner := insight.NewLLMPlanner(provider, "test-model", "transactions", 0.0, 3, nil)

		_, err := planner.PlanTasks(context.Background(), "How much revenue?", "column list here")
		Expect(err).NotTo(HaveOccurred())

		Expect(provider.requests).To(HaveLen(1))
		req := provider.requests[0]
		Expect(req.Model).To(Equal("test-model"))
		Expect(req.Temperature).NotTo(BeNil())
		Expect(*req.Temperature).To(Equal(0.0))

		prompt := req.Messages[len(req.Messages)-1].Content
		Expect(prompt).To(ContainSubstring("column list here"))
		Expect(prompt).To(ContainSubstring("transactions"))
		Expect(prompt).To(ContainSubstring("How much revenue?"))
	})
})
