package business

import (
	"errors"
	"net/http"

	"github.com/luvora/luvora/internal/platform/httpx"
)

// RespondError maps the domain error taxonomy to problem-detail
// responses. Each kind keeps a distinct title so the UI can show a
// specific message rather than a generic failure.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAuthRequired):
		httpx.Problem(w, http.StatusUnauthorized, "Authentication Required", err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, ErrItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Item Not Found", err.Error())
	case errors.Is(err, ErrSaleNotFound):
		httpx.Problem(w, http.StatusNotFound, "Sale Not Found", err.Error())
	case errors.Is(err, ErrTransactionNotFound):
		httpx.Problem(w, http.StatusNotFound, "Transaction Not Found", err.Error())
	case errors.Is(err, ErrSaleNotApplied):
		// Partial failure: the sale committed but the stock decrement did
		// not. Checked before the plain stock case because the decrement
		// refusal that triggered it also wraps ErrInsufficientStock.
		httpx.Problem(w, http.StatusConflict, "Sale Recorded, Stock Not Adjusted", err.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, ErrRemoteRejected):
		httpx.Problem(w, http.StatusBadGateway, "Store Rejected Operation", err.Error())
	case errors.Is(err, ErrRemoteUnavailable):
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", err.Error())
	case errors.Is(err, ErrStorageRejected):
		httpx.Problem(w, http.StatusBadGateway, "Photo Storage Failed", err.Error())
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
