package fastslic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidArgumentError(t *testing.T) {
	err := invalidArgf("K", "must be positive, got %d", -1)

	assert.ErrorIs(t, err, ErrInvalidArgument)

	var iae *InvalidArgumentError
	assert.True(t, errors.As(err, &iae))
	assert.Equal(t, "K", iae.Field)
	assert.Contains(t, err.Error(), "K")
	assert.Contains(t, err.Error(), "-1")
}
