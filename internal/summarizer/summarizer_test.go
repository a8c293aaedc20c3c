package summarizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGenAI_RequiresKey(t *testing.T) {
	g, err := NewGenAI(context.Background(), "", "gemini-2.0-flash")
	assert.Error(t, err)
	assert.Nil(t, g)
}
