package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"villa/shared/constant"
	"villa/shared/failure"
	"villa/shared/logger"

	"github.com/rs/zerolog/log"
)

const messageInternalError = "internal server error"

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string       `json:"error,omitempty"`
	Code  *failure.Kind `json:"code,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithError sends a Failure as {"error", "code"}. Anything else is logged and hidden behind a generic 500.
func WithError(writer http.ResponseWriter, err error) {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		log.Error().Err(err).Msg("unhandled error reached the response writer")

		WithInternalError(writer)

		return
	}

	errMsg := fail.Message
	kind := fail.Kind

	response(writer, fail.Code, Error{Error: &errMsg, Code: &kind})
}

// WithInternalError sends the generic 500 body.
func WithInternalError(writer http.ResponseWriter) {
	errMsg := messageInternalError
	kind := failure.KindInternal

	response(writer, http.StatusInternalServerError, Error{Error: &errMsg, Code: &kind})
}

// WithCalendar sends an iCalendar document as a download.
func WithCalendar(writer http.ResponseWriter, filename, body string) {
	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeCalendar+"; charset=utf-8")
	writer.Header().Set(constant.RequestHeaderContentDisposition, `attachment; filename="`+filename+`"`)
	writer.WriteHeader(http.StatusOK)

	if _, err := writer.Write([]byte(body)); err != nil {
		logger.ErrorWithStack(err)
	}
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
