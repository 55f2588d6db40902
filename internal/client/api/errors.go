package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"paneldesk/internal/client/models"
	"paneldesk/internal/common"
)

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors"`
}

// mapStatusError translates an HTTP failure into the shared taxonomy:
// validation errors keep their field map, auth failures map onto sentinels,
// everything 5xx collapses into ErrUnavailable.
func mapStatusError(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)
	if body.Message == "" {
		body.Message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &models.ValidationError{Message: body.Message, Fields: body.Errors}
	case http.StatusUnauthorized:
		if body.Code == "token_expired" {
			return common.ErrTokenExpired
		}
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, body.Message)
	case http.StatusRequestEntityTooLarge:
		return &models.UploadError{Reason: models.UploadReasonTooLarge, Err: errors.New(body.Message)}
	case http.StatusUnsupportedMediaType:
		return &models.UploadError{Reason: models.UploadReasonRejected, Err: errors.New(body.Message)}
	default:
		return fmt.Errorf("%w: %s (%d)", common.ErrUnavailable, body.Message, status)
	}
}

func isTokenExpired(err error) bool {
	return errors.Is(err, common.ErrTokenExpired)
}

// classifyUploadErr ensures every upload failure surfaces as *UploadError.
// Validation rejections become "rejected", transport failures "network";
// already-typed upload errors pass through.
func classifyUploadErr(err error) error {
	var ue *models.UploadError
	if errors.As(err, &ue) {
		return err
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return &models.UploadError{Reason: models.UploadReasonRejected, Err: ve}
	}
	if errors.Is(err, common.ErrUnavailable) {
		return &models.UploadError{Reason: models.UploadReasonNetwork, Err: err}
	}
	return err
}
