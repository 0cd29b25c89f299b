package failure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the stable machine-readable error category returned to clients.
type Kind string

const (
	KindValidation            Kind = "validation_error"
	KindDateConflict          Kind = "date_conflict"
	KindPriceMismatch         Kind = "price_mismatch"
	KindNotFound              Kind = "not_found"
	KindAlreadyPaid           Kind = "already_paid"
	KindPaymentGateway        Kind = "payment_gateway_error"
	KindSignatureVerification Kind = "signature_verification_failed"
	KindReplay                Kind = "replay_detected"
	KindUpstreamDegraded      Kind = "upstream_degraded"
	KindMinimumStay           Kind = "minimum_stay"
	KindOutOfRange            Kind = "out_of_range"
	KindNoPricingRule         Kind = "no_pricing_rule"
	KindUnauthorized          Kind = "unauthorized"
	KindForbidden             Kind = "forbidden"
	KindConflict              Kind = "conflict"
	KindInternal              Kind = "internal_error"
	KindUnimplemented         Kind = "unimplemented"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have the required permissions"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// New builds a Failure with an explicit status, kind and message.
func New(code int, kind Kind, msg string) error {
	return &Failure{
		Code:    code,
		Kind:    kind,
		Message: msg,
	}
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Kind:    KindUnimplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: msg,
	}
}

// DateConflict reports a stay that overlaps a blocked range, naming the first blocked day.
func DateConflict(firstBlockedDay string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindDateConflict,
		Message: fmt.Sprintf("selected dates are not available, %s is already booked", firstBlockedDay),
	}
}

// DateConflictDays lists every blocked day inside the requested stay.
func DateConflictDays(days []string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindDateConflict,
		Message: "selected dates are not available: " + strings.Join(days, ", "),
	}
}

func PriceMismatch(expected, received string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindPriceMismatch,
		Message: fmt.Sprintf("price mismatch: expected %s, received %s", expected, received),
	}
}

func AlreadyPaid(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindAlreadyPaid,
		Message: msg,
	}
}

// PaymentGateway reports a processor failure. Card declines use 402, everything else 502.
func PaymentGateway(code int, msg string) error {
	return &Failure{
		Code:    code,
		Kind:    KindPaymentGateway,
		Message: msg,
	}
}

func SignatureVerification(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindSignatureVerification,
		Message: msg,
	}
}

func Replay(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindReplay,
		Message: msg,
	}
}

func UpstreamDegraded(msg string) error {
	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindUpstreamDegraded,
		Message: msg,
	}
}

func MinimumStay(minNights int, season string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindMinimumStay,
		Message: fmt.Sprintf("minimum stay during %s season is %d nights", season, minNights),
	}
}

func OutOfRange(lastCheckout string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindOutOfRange,
		Message: fmt.Sprintf("bookings are only available with check-out on or before %s", lastCheckout),
	}
}

func NoPricingRule(days []string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindNoPricingRule,
		Message: "no pricing available for: " + strings.Join(days, ", "),
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of an error, KindInternal for anything that is not a Failure.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// Is reports whether err is a Failure of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
