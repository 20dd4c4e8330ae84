package handler

import (
	"github.com/deppfellow/gym-sessions/internal/errs"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/pkg/errors"
)

// mapError translates model sentinels into HTTP errors. Unknown errors are
// returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return errs.NewNotFoundError(err.Error(), true, nil)
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, model.ErrInvalidInput):
		return errs.NewBadRequestError(err.Error(), true, nil, nil, nil)
	case errors.Is(err, model.ErrInvalidCredentials):
		return errs.NewUnauthorizedError("Bad credentials", true)
	case errors.Is(err, model.ErrForbidden):
		return errs.NewForbiddenError("Access denied", true)
	default:
		return err
	}
}
