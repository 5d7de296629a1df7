package bizerror

import (
	"autobay/common"
	"autobay/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = fmt.Errorf("%v", ret)
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	status, body := respond(genericErr)
	entry := logrus.WithError(err).WithFields(logrus.Fields{"status": status, "path": c.Request.URL.Path})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	c.JSON(status, body)
	c.Abort()
}

func respond(err error) (int, *common.ErrorBody) {
	var bizErr common.BizError
	if errors.As(err, &bizErr) {
		r := bizErr.Respond()
		return r.Status, &common.ErrorBody{Code: r.Code, Message: r.Message, Data: r.Data}
	}

	// bad request: io.EOF (no body).
	if errors.Is(err, io.EOF) {
		return http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format",
			Message: "invalid body format", Data: syntaxErr.Error()}
	}
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed",
			Message: "validation failed", Data: validationErr.Error()}
	}

	switch {
	case errors.Is(err, domain.ErrNoKnownTasks):
		return http.StatusBadRequest, &common.ErrorBody{Code: "work_order.no_known_tasks", Message: err.Error()}
	case errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, &common.ErrorBody{Code: "common.record_not_found", Message: "record not found"}
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, &common.ErrorBody{Code: "work_order.invalid_state", Message: err.Error()}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, &common.ErrorBody{Code: "common.too_many_requests", Message: "too many requests"}
	case errors.Is(err, ErrRequestInFlight):
		return http.StatusConflict, &common.ErrorBody{Code: "common.request_in_flight", Message: err.Error()}
	case errors.Is(err, ErrIdempotencyReuse):
		return http.StatusUnprocessableEntity, &common.ErrorBody{Code: "common.idempotency_key_reused", Message: err.Error()}
	}

	return http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: err.Error()}
}
