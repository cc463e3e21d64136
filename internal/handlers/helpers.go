package handlers

import (
	"errors"
	"net/http"

	"estimate-backend/internal/billing"
)

// serviceError maps service-layer failures onto HTTP status codes: input
// problems are 400, lifecycle violations are 409, everything else is 500.
func serviceError(w http.ResponseWriter, err error) {
	var validationErr *billing.ValidationError
	var transitionErr *billing.InvalidTransitionError
	var stateErr *billing.InvalidStateError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &transitionErr), errors.As(err, &stateErr):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
