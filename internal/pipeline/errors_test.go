package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsTransient(Transient("network blip")))
	assert.False(t, IsTransient(PermanentAsset("corrupt media")))
	assert.False(t, IsTransient(Validation("empty transcript")))

	// Unclassified errors default to transient so nothing gets burned by
	// an unexpected failure.
	assert.True(t, IsTransient(errors.New("who knows")))
}

func TestClassifiedErrorWrapping(t *testing.T) {
	inner := errors.New("connection refused")
	err := Transient("downloading: %w", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "downloading: connection refused")

	wrapped := fmt.Errorf("stage: %w", PermanentAsset("bad frame"))
	assert.False(t, IsTransient(wrapped))
}
