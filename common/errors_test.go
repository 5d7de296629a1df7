package common_test

import (
	"autobay/common"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Errors", func() {
	Describe("ErrBadParam", func() {
		Describe("Error", func() {
			It("should return default message if cause is nil", func() {
				err := common.ErrBadParam{}
				Expect(err.Error()).To(Equal("common.bad_param"))
			})
			It("should invoke the Error() function of cause property if cause is not nil", func() {
				err := common.ErrBadParam{Cause: errors.New("progress out of range")}
				Expect(err.Error()).To(Equal("progress out of range"))
			})
		})

		Describe("Respond", func() {
			It("should respond with bad request status", func() {
				err := &common.ErrBadParam{Cause: errors.New("bad intake")}
				Expect(*err.Respond()).To(Equal(common.BizErrorDetail{
					Status: http.StatusBadRequest, Code: "common.bad_param", Message: "bad intake"}))
			})
		})

		Describe("Unwrap", func() {
			It("should expose the cause to errors.Is", func() {
				cause := errors.New("cause")
				Expect(errors.Is(&common.ErrBadParam{Cause: cause}, cause)).To(BeTrue())
			})
		})
	})
})
