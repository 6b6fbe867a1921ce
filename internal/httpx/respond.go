package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"aqsit-be/internal/apperrors"
	"aqsit-be/internal/logger"
	"aqsit-be/internal/moodboard"
	"aqsit-be/internal/order"
	"aqsit-be/internal/orderref"
	"aqsit-be/internal/pricing"
	"aqsit-be/internal/product"
	"aqsit-be/internal/project"
	"aqsit-be/internal/sample"
	"aqsit-be/internal/user"

	"go.uber.org/zap"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Result  any  `json:"result"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes the success envelope.
func OK(w http.ResponseWriter, code int, result any) {
	writeJSON(w, code, successEnvelope{Success: true, Code: code, Result: result})
}

// Fail writes the error envelope with an explicit status.
func Fail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorEnvelope{Success: false, Code: code, Message: message})
}

var notFoundErrs = []error{
	order.ErrOrderNotFound,
	sample.ErrOrderNotFound,
	orderref.ErrReferenceNotFound,
	pricing.ErrRequestNotFound,
	product.ErrProductNotFound,
	project.ErrProjectNotFound,
	moodboard.ErrMoodboardNotFound,
	user.ErrUserNotFound,
}

var badRequestErrs = []error{
	orderref.ErrAlreadyInBasket,
	pricing.ErrAlreadyAsked,
	order.ErrNoLines,
	order.ErrUserNotVerified,
	sample.ErrUserNotVerified,
	sample.ErrTooFewProducts,
	sample.ErrNoShippingAddress,
	sample.ErrOrderTooSoon,
	sample.ErrExtensionPending,
	sample.ErrExtensionNotInDelivered,
	sample.ErrExtendedOnce,
	sample.ErrNoExtensionPending,
	user.ErrEmailExists,
}

var unauthorizedErrs = []error{
	order.ErrUnauthorized,
	sample.ErrUnauthorized,
	pricing.ErrUnauthorized,
	user.ErrInvalidCredentials,
}

// Error maps a service error onto the envelope. Precondition failures
// and known domain errors keep their message; anything else is logged
// and hidden behind a generic 500.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	if apperrors.IsPrecondition(err) {
		Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, known := range badRequestErrs {
		if errors.Is(err, known) {
			Fail(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for _, known := range notFoundErrs {
		if errors.Is(err, known) {
			Fail(w, http.StatusNotFound, err.Error())
			return
		}
	}
	for _, known := range unauthorizedErrs {
		if errors.Is(err, known) {
			Fail(w, http.StatusUnauthorized, err.Error())
			return
		}
	}

	logger.FromCtx(ctx).Error("unhandled request error", zap.Error(err))
	Fail(w, http.StatusInternalServerError, "internal server error")
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
