package dataset_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"insightql/dataset"
)

var _ = Describe("Loader", func() {
	var loader *dataset.Loader

	BeforeEach(func() {
		loader = dataset.NewLoader(nil)
	})

	It("loads a CSV into a queryable table", func() {
		path := writeFile("tx.csv", `date,region,amount
2024-01-05 09:30:00,north,120.50
2024-01-06 14:00:00,south,80.00
`)

		table, err := loader.LoadCSV(path, "transactions", "")
		Expect(err).NotTo(HaveOccurred())
		defer table.Close()

		Expect(table.Name()).To(Equal("transactions"))
		Expect(table.RowCount()).To(Equal(2))

		var total float64
		err = table.DB().QueryRow("SELECT SUM(amount) FROM transactions").Scan(&total)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(200.50))
	})

	It("returns ErrSourceNotFound for a missing file", func() {
		_, err := loader.LoadCSV("/nonexistent/tx.csv", "transactions", "")
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, dataset.ErrSourceNotFound)).To(BeTrue())
	})

	Describe("type inference", func() {
		columnTypes := func(csv string) map[string]dataset.ColumnType {
			table, err := loader.LoadCSV(writeFile("t.csv", csv), "t", "")
			Expect(err).NotTo(HaveOccurred())
			defer table.Close()

			types := make(map[string]dataset.ColumnType)
			for _, c := range table.Columns() {
				types[c.Name] = c.Type
			}
			return types
		}

		It("picks the narrowest type each column satisfies", func() {
			types := columnTypes(`id,price,active,created,label
1,9.99,true,2024-01-05,alpha
2,12.00,false,2024-01-06,beta
`)
			Expect(types["id"]).To(Equal(dataset.TypeInteger))
			Expect(types["price"]).To(Equal(dataset.TypeReal))
			Expect(types["active"]).To(Equal(dataset.TypeBoolean))
			Expect(types["created"]).To(Equal(dataset.TypeDatetime))
			Expect(types["label"]).To(Equal(dataset.TypeText))
		})

		It("widens integers to real on a mixed column", func() {
			types := columnTypes(`n
1
2.5
`)
			Expect(types["n"]).To(Equal(dataset.TypeReal))
		})

		It("falls back to text on any non-conforming value", func() {
			types := columnTypes(`n
1
two
`)
			Expect(types["n"]).To(Equal(dataset.TypeText))
		})

		It("ignores empty fields when inferring", func() {
			types := columnTypes(`n
1

3
`)
			Expect(types["n"]).To(Equal(dataset.TypeInteger))
		})

		It("treats an all-empty column as text", func() {
			types := columnTypes(`a,b
1,
2,
`)
			Expect(types["b"]).To(Equal(dataset.TypeText))
		})
	})

	It("normalizes datetimes to one canonical format", func() {
		path := writeFile("t.csv", `ts
2024-01-05T09:30:00
2024-01-06
`)
		table, err := loader.LoadCSV(path, "t", "")
		Expect(err).NotTo(HaveOccurred())
		defer table.Close()

		rows, err := table.DB().Query("SELECT CAST(ts AS TEXT) FROM t ORDER BY ts")
		Expect(err).NotTo(HaveOccurred())
		defer rows.Close()

		var values []string
		for rows.Next() {
			var v string
			Expect(rows.Scan(&v)).To(Succeed())
			values = append(values, v)
		}
		Expect(values).To(Equal([]string{"2024-01-05 09:30:00", "2024-01-06 00:00:00"}))
	})

	It("stores empty fields as NULL", func() {
		path := writeFile("t.csv", `region,amount
north,
south,80.00
`)
		table, err := loader.LoadCSV(path, "t", "")
		Expect(err).NotTo(HaveOccurred())
		defer table.Close()

		var nulls int
		err = table.DB().QueryRow("SELECT COUNT(*) FROM t WHERE amount IS NULL").Scan(&nulls)
		Expect(err).NotTo(HaveOccurred())
		Expect(nulls).To(Equal(1))
	})

	Describe("schema description", func() {
		It("generates one from the inferred columns by default", func() {
			path := writeFile("tx.csv", `region,amount
north,120.50
`)
			table, err := loader.LoadCSV(path, "transactions", "")
			Expect(err).NotTo(HaveOccurred())
			defer table.Close()

			Expect(table.SchemaText()).To(ContainSubstring("transactions"))
			Expect(table.SchemaText()).To(ContainSubstring("region"))
			Expect(table.SchemaText()).To(ContainSubstring("amount"))
		})

		It("prefers the sidecar schema file when present", func() {
			csvPath := writeFile("tx.csv", `region,amount
north,120.50
`)
			schemaPath := writeFile("schema.txt", "Hand-written column notes.")

			table, err := loader.LoadCSV(csvPath, "transactions", schemaPath)
			Expect(err).NotTo(HaveOccurred())
			defer table.Close()

			Expect(table.SchemaText()).To(Equal("Hand-written column notes."))
		})

		It("falls back to generated text when the schema file is missing", func() {
			csvPath := writeFile("tx.csv", `region,amount
north,120.50
`)
			table, err := loader.LoadCSV(csvPath, "transactions", "/nonexistent/schema.txt")
			Expect(err).NotTo(HaveOccurred())
			defer table.Close()

			Expect(table.SchemaText()).To(ContainSubstring("region"))
		})
	})

	It("quotes awkward column and table names", func() {
		path := writeFile("t.csv", `order,select
1,2
`)
		table, err := loader.LoadCSV(path, "group", "")
		Expect(err).NotTo(HaveOccurred())
		defer table.Close()

		var n int
		err = table.DB().QueryRow(`SELECT COUNT(*) FROM "group"`).Scan(&n)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
	})
})
