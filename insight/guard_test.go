package insight_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"insightql/insight"
)

var _ = Describe("Permits", func() {
	It("permits a plain SELECT", func() {
		Expect(insight.Permits("SELECT * FROM transactions")).To(BeTrue())
	})

	It("is case insensitive", func() {
		Expect(insight.Permits("select count(*) from transactions")).To(BeTrue())
		Expect(insight.Permits("SeLeCt 1")).To(BeTrue())
	})

	It("ignores leading whitespace", func() {
		Expect(insight.Permits("   \n\t SELECT 1")).To(BeTrue())
	})

	It("rejects data-modifying statements", func() {
		Expect(insight.Permits("DROP TABLE transactions")).To(BeFalse())
		Expect(insight.Permits("DELETE FROM transactions")).To(BeFalse())
		Expect(insight.Permits("INSERT INTO transactions VALUES (1)")).To(BeFalse())
		Expect(insight.Permits("UPDATE transactions SET amount = 0")).To(BeFalse())
	})

	It("rejects WITH-prefixed queries even when they end in SELECT", func() {
		Expect(insight.Permits("WITH t AS (SELECT 1) SELECT * FROM t")).To(BeFalse())
	})

	It("rejects empty and too-short input", func() {
		Expect(insight.Permits("")).To(BeFalse())
		Expect(insight.Permits("   ")).To(BeFalse())
		Expect(insight.Permits("sel")).To(BeFalse())
	})
})
