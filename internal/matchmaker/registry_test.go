package matchmaker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gramroulette/internal/matchmaker"
)

func TestRegistryPairIsSymmetric(t *testing.T) {
	registry := matchmaker.NewSessionRegistry()

	assert.NoError(t, registry.Pair(1, 2, "session-1"))
	assert.Equal(t, 2, registry.Len(), "registry size is always even")

	partner, ok := registry.PartnerOf(1)
	assert.True(t, ok)
	assert.Equal(t, int64(2), partner)

	back, ok := registry.PartnerOf(partner)
	assert.True(t, ok)
	assert.Equal(t, int64(1), back, "partnerOf(partnerOf(u)) must be u")

	sessionID, ok := registry.SessionOf(2)
	assert.True(t, ok)
	assert.Equal(t, "session-1", sessionID)
}

func TestRegistryRejectsSelfPair(t *testing.T) {
	registry := matchmaker.NewSessionRegistry()
	assert.ErrorIs(t, registry.Pair(1, 1, "s"), matchmaker.ErrAlreadyPaired)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistryRejectsDoublePair(t *testing.T) {
	registry := matchmaker.NewSessionRegistry()
	assert.NoError(t, registry.Pair(1, 2, "s1"))

	assert.ErrorIs(t, registry.Pair(1, 3, "s2"), matchmaker.ErrAlreadyPaired)
	assert.ErrorIs(t, registry.Pair(3, 2, "s2"), matchmaker.ErrAlreadyPaired)
	assert.Equal(t, 2, registry.Len(), "failed pairings leave the table untouched")

	_, ok := registry.PartnerOf(3)
	assert.False(t, ok)
}

func TestRegistryUnpair(t *testing.T) {
	registry := matchmaker.NewSessionRegistry()
	assert.NoError(t, registry.Pair(1, 2, "s1"))

	partner, sessionID, err := registry.Unpair(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), partner)
	assert.Equal(t, "s1", sessionID)
	assert.Equal(t, 0, registry.Len(), "both directions removed")

	_, ok := registry.PartnerOf(2)
	assert.False(t, ok)

	_, _, err = registry.Unpair(1)
	assert.ErrorIs(t, err, matchmaker.ErrNotInSession)
}
