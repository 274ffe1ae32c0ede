package httpadapter

import (
	"net/http"

	"github.com/avosseler/vendormind/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrStoreFailure):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
