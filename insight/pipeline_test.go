package insight_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"insightql/config"
	"insightql/dataset"
	"insightql/insight"
	"insightql/store"
)

var _ = Describe("Pipeline", func() {
	var (
		generator *fakeGenerator
		narrator  *fakeNarrator
		runs      store.RunStore
		ctx       context.Context
	)

	newPipeline := func(datasetPath string) *insight.Pipeline {
		pipeline, err := insight.New(insight.Options{
			Config: &config.Pipeline{
				Dataset: datasetPath,
				Table:   "transactions",
			},
			Generator: generator,
			Narrator:  narrator,
			Runs:      runs,
		})
		Expect(err).NotTo(HaveOccurred())
		return pipeline
	}

	BeforeEach(func() {
		generator = &fakeGenerator{specs: []insight.TaskSpec{
			{TaskName: "Total Revenue", SQLQuery: "SELECT SUM(amount) AS total FROM transactions"},
		}}
		narrator = &fakeNarrator{answer: "Revenue totaled 445.75."}
		runs = store.NewMemoryBundle().Runs
		ctx = context.Background()
	})

	It("returns the answer and the envelope together", func() {
		pipeline := newPipeline(writeCSV(transactionsCSV))

		resp, err := pipeline.Run(ctx, "How much revenue?")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Answer).To(Equal("Revenue totaled 445.75."))
		Expect(resp.ResponseJSON.Tasks).To(HaveLen(1))
		Expect(resp.ResponseJSON.Tasks[0].Rows[0]["total"]).To(Equal(445.75))

		// The narrator saw exactly the envelope that was returned
		Expect(narrator.envelope).To(Equal(resp.ResponseJSON))
	})

	It("passes the schema description to the task generator", func() {
		pipeline := newPipeline(writeCSV(transactionsCSV))

		_, err := pipeline.Run(ctx, "q")
		Expect(err).NotTo(HaveOccurred())
		Expect(generator.schema).To(ContainSubstring("transactions"))
		Expect(generator.schema).To(ContainSubstring("amount"))
	})

	It("still narrates when the generator plans zero tasks", func() {
		generator.specs = []insight.TaskSpec{}
		pipeline := newPipeline(writeCSV(transactionsCSV))

		resp, err := pipeline.Run(ctx, "q")
		Expect(err).NotTo(HaveOccurred())
		Expect(narrator.calls).To(Equal(1))
		Expect(resp.Answer).NotTo(BeEmpty())
		Expect(resp.ResponseJSON.Tasks).To(BeEmpty())
	})

	It("streams the answer through RunStream", func() {
		pipeline := newPipeline(writeCSV(transactionsCSV))

		var streamed string
		resp, err := pipeline.RunStream(ctx, "q", func(chunk string) {
			streamed += chunk
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(streamed).To(Equal(resp.Answer))
	})

	Describe("failure taxonomy", func() {
		It("fails with ErrSourceNotFound when the dataset is missing", func() {
			pipeline := newPipeline("/nonexistent/transactions.csv")

			_, err := pipeline.Run(ctx, "q")
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, dataset.ErrSourceNotFound)).To(BeTrue())
			Expect(generator.calls).To(BeZero())
			Expect(narrator.calls).To(BeZero())
		})

		It("wraps generator failures as GeneratorError", func() {
			generator.err = fmt.Errorf("model unavailable")
			pipeline := newPipeline(writeCSV(transactionsCSV))

			_, err := pipeline.Run(ctx, "q")
			var genErr *insight.GeneratorError
			Expect(errors.As(err, &genErr)).To(BeTrue())
			Expect(genErr.Unwrap().Error()).To(Equal("model unavailable"))
			Expect(narrator.calls).To(BeZero())
		})

		It("wraps narrator failures as NarratorError", func() {
			narrator.err = fmt.Errorf("stream cut")
			pipeline := newPipeline(writeCSV(transactionsCSV))

			_, err := pipeline.Run(ctx, "q")
			var narErr *insight.NarratorError
			Expect(errors.As(err, &narErr)).To(BeTrue())
		})

		It("keeps per-task failures inside the envelope, not as run errors", func() {
			generator.specs = []insight.TaskSpec{
				{TaskName: "Broken", SQLQuery: "SELECT nope FROM not_a_table"},
			}
			pipeline := newPipeline(writeCSV(transactionsCSV))

			resp, err := pipeline.Run(ctx, "q")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ResponseJSON.Tasks[0].Rows[0]["error"]).To(HavePrefix("Query execution failed:"))
		})
	})

	Describe("run recording", func() {
		It("records a completed run with its tasks", func() {
			pipeline := newPipeline(writeCSV(transactionsCSV))

			_, err := pipeline.Run(ctx, "How much revenue?")
			Expect(err).NotTo(HaveOccurred())

			recorded, err := runs.ListRuns(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(recorded).To(HaveLen(1))
			Expect(recorded[0].Status).To(Equal(store.StatusCompleted))
			Expect(recorded[0].Question).To(Equal("How much revenue?"))
			Expect(recorded[0].Answer).To(Equal("Revenue totaled 445.75."))

			tasks, err := runs.GetRunTasks(recorded[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].TaskName).To(Equal("Total Revenue"))
			Expect(tasks[0].Error).To(BeNil())
		})

		It("records failed runs", func() {
			generator.err = fmt.Errorf("model unavailable")
			pipeline := newPipeline(writeCSV(transactionsCSV))

			_, err := pipeline.Run(ctx, "q")
			Expect(err).To(HaveOccurred())

			recorded, err := runs.ListRuns(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(recorded).To(HaveLen(1))
			Expect(recorded[0].Status).To(Equal(store.StatusFailed))
			Expect(recorded[0].Error).NotTo(BeNil())
		})

		It("marks a task's recorded error when its rows are the failure shape", func() {
			generator.specs = []insight.TaskSpec{
				{TaskName: "Broken", SQLQuery: "DROP TABLE transactions"},
			}
			pipeline := newPipeline(writeCSV(transactionsCSV))

			_, err := pipeline.Run(ctx, "q")
			Expect(err).NotTo(HaveOccurred())

			recorded, _ := runs.ListRuns(10)
			tasks, err := runs.GetRunTasks(recorded[0].ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks[0].Error).NotTo(BeNil())
			Expect(*tasks[0].Error).To(Equal(insight.RejectedQueryMessage))
		})
	})
})
