package common_test

import (
	"autobay/common"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("NextId", func() {
	It("should generate distinct increasing ids", func() {
		w := common.NewIdWorker()
		Expect(w).ToNot(BeNil())

		first := common.NextId(w)
		second := common.NextId(w)
		Expect(first).ToNot(BeZero())
		Expect(second > first).To(BeTrue())
	})
})
