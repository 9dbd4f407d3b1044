package handlers

import (
	"errors"
	"net/http"

	"figuregen/internal/domain"
)

// Recovery actions the client offers the visitor after a failure.
const (
	RecoveryRetry      = "retry"
	RecoveryBack       = "back"
	RecoveryReupload   = "reupload"
	RecoveryManualSave = "manual_save"
	RecoveryNone       = "none"
)

type errorBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Recovery string `json:"recovery"`
}

// mapError is the single place where the error taxonomy becomes
// user-facing copy plus an explicit recovery action.
func mapError(err error) (int, errorBody) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{
			Error:    "not_found",
			Message:  "That session does not exist or has expired. Start over from the beginning.",
			Recovery: RecoveryNone,
		}
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable, errorBody{
			Error:    "not_configured",
			Message:  "Image generation is not configured. Add openai.api_key to the secrets file or set OPENAI_API_KEY.",
			Recovery: RecoveryNone,
		}
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, errorBody{
			Error:    "unsupported_format",
			Message:  "This build cannot read HEIC photos. Convert the photo to JPG and upload it again.",
			Recovery: RecoveryReupload,
		}
	case errors.Is(err, domain.ErrDecode):
		return http.StatusBadRequest, errorBody{
			Error:    "bad_photo",
			Message:  "We could not read that photo. Please upload a clear JPG or PNG.",
			Recovery: RecoveryReupload,
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorBody{
			Error:    "invalid_input",
			Message:  err.Error(),
			Recovery: RecoveryBack,
		}
	case errors.Is(err, domain.ErrDuplicateAttempt):
		return http.StatusConflict, errorBody{
			Error:    "already_generated",
			Message:  "This session already has a figure in progress or finished. Use Create Another to start fresh.",
			Recovery: RecoveryNone,
		}
	case errors.Is(err, domain.ErrWrongStage):
		return http.StatusConflict, errorBody{
			Error:    "wrong_step",
			Message:  "That action is not available at this step of the wizard.",
			Recovery: RecoveryBack,
		}
	case errors.Is(err, domain.ErrExtraction):
		return http.StatusBadGateway, errorBody{
			Error:    "no_image",
			Message:  "The generator responded without an image. Try again, or go back and adjust your details.",
			Recovery: RecoveryRetry,
		}
	case errors.Is(err, domain.ErrProviderFailure):
		// Surfaced verbatim so the operator at the event sees the
		// provider's own reason; no automatic retry.
		return http.StatusBadGateway, errorBody{
			Error:    "provider_error",
			Message:  err.Error(),
			Recovery: RecoveryRetry,
		}
	case errors.Is(err, domain.ErrFetch), errors.Is(err, domain.ErrPersist):
		return http.StatusBadGateway, errorBody{
			Error:    "download_failed",
			Message:  "We could not prepare the download. Press and hold the image to save it manually.",
			Recovery: RecoveryManualSave,
		}
	default:
		return http.StatusInternalServerError, errorBody{
			Error:    "internal",
			Message:  "Something went wrong. Please try again.",
			Recovery: RecoveryRetry,
		}
	}
}
