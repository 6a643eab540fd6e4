package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactionType_Opposite(t *testing.T) {
	assert.Equal(t, ReactionDislike, ReactionLike.Opposite())
	assert.Equal(t, ReactionLike, ReactionDislike.Opposite())
	assert.Equal(t, ReactionLike, ReactionLike.Opposite().Opposite())
}
