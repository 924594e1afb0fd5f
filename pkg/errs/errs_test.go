package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("resolve wallpaper: %w", NewNetwork("fetch page", cause))

	assert.True(t, Is(err, Network))
	assert.False(t, Is(err, Parse))
	assert.ErrorIs(t, err, cause)
	assert.False(t, Is(cause, Network))
}

func TestError(t *testing.T) {
	assert.Equal(t, "write file: disk full", NewFilesystem("write file", errors.New("disk full")).Error())
	assert.Equal(t, "extract url: parse error", NewParse("extract url", nil).Error())
}
