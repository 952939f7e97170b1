// Package service holds helpers shared by the domain services below it.
package service

import (
	stderrors "errors"

	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/pkg/errors"
)

// RepoError translates repository sentinels into application errors.
func RepoError(resource string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFound(resource, err)
	case stderrors.Is(err, repository.ErrDuplicate):
		return errors.Conflict(resource+" already exists", err)
	default:
		return errors.Internal(err)
	}
}

// Invalid wraps a validation failure as a BadRequest.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return errors.BadRequest(err.Error(), err)
}
