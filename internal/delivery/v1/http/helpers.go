package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DRSN-tech/film-indexer/pkg/e"
)

// ErrorResponse описывает тело любого ответа сервиса, в том числе успешного.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse совпадает по форме с ErrorResponse и используется в успешных ответах.
type MessageResponse = ErrorResponse

func NewMessageResponse(message string) *MessageResponse {
	return &MessageResponse{
		Message: message,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// ToHTTPResponse выбирает статус по сентинелу в цепочке ошибки.
// Для известных классов текст берётся из e.PublicError, если он есть.
func ToHTTPResponse(err error) (int, string) {
	code, msg, known := statusFor(err)
	if !known {
		return code, msg
	}

	if public, ok := e.PublicMessage(err); ok {
		return code, public
	}

	return code, msg
}

func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, e.ErrYearRequired):
		return http.StatusBadRequest, e.ErrYearRequired.Error(), true
	case errors.Is(err, e.ErrInvalidYear):
		return http.StatusBadRequest, e.ErrInvalidYear.Error(), true
	case errors.Is(err, e.ErrMissingConfig):
		return http.StatusBadRequest, e.ErrMissingConfig.Error(), true
	case errors.Is(err, e.ErrIngestionNotFound):
		return http.StatusNotFound, e.ErrIngestionNotFound.Error(), true
	case errors.Is(err, e.ErrCatalogUnavailable):
		return http.StatusBadGateway, e.ErrCatalogUnavailable.Error(), true
	case errors.Is(err, e.ErrEmbeddingFailed):
		return http.StatusBadGateway, e.ErrEmbeddingFailed.Error(), true
	case errors.Is(err, e.ErrDatastoreWrite):
		return http.StatusInternalServerError, e.ErrDatastoreWrite.Error(), true
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error(), false
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
