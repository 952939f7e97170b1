package service

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/pkg/errors"
)

func TestRepoError(t *testing.T) {
	assert.NoError(t, RepoError("mailing", nil))

	err := RepoError("mailing", fmt.Errorf("failed to get mailing: %w", repository.ErrNotFound))
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, "mailing not found: failed to get mailing: record not found", err.Error())

	assert.True(t, errors.Is(RepoError("recipient", repository.ErrDuplicate), errors.ErrConflict))
	assert.True(t, errors.Is(RepoError("recipient", stderrors.New("conn reset")), errors.ErrInternal))

	forbidden := errors.Forbidden("no")
	assert.Same(t, forbidden, RepoError("x", forbidden))
}
