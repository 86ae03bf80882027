package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel_Key(t *testing.T) {
	assert.Equal(t, KeyGeneralDisengagement, LabelGeneralDisengagement.Key())
	assert.Equal(t, KeySpecificDifficulty, LabelSpecificDifficulty.Key())
	assert.Equal(t, KeyUnstablePerformance, LabelUnstablePerformance.Key())

	// Unknown labels degrade to the low-signal code, never to a new one.
	assert.Equal(t, KeyUnstablePerformance, Label("???").Key())
}

func TestKnownKey(t *testing.T) {
	assert.True(t, KnownKey(KeyGeneralDisengagement))
	assert.True(t, KnownKey(KeySpecificDifficulty))
	assert.True(t, KnownKey(KeyUnstablePerformance))
	assert.False(t, KnownKey("RISCO_DESCONHECIDO"))
	assert.False(t, KnownKey(""))
}
