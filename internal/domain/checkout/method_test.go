package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodByID(t *testing.T) {
	m, err := MethodByID(MethodOVO)
	require.NoError(t, err)
	assert.Equal(t, "OVO", m.Label)
	require.NotNil(t, m.Balance)
	assert.Equal(t, int64(25000), *m.Balance)

	_, err = MethodByID("dana")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestDefaultMethod_IsUnlimitedCash(t *testing.T) {
	m := DefaultMethod()
	assert.Equal(t, MethodCash, m.ID)
	assert.True(t, m.IsUnlimited())
}

func TestCanCover(t *testing.T) {
	cash := DefaultMethod()
	assert.True(t, cash.CanCover(1_000_000_000))

	ovo, err := MethodByID(MethodOVO)
	require.NoError(t, err)
	assert.True(t, ovo.CanCover(24999))
	assert.True(t, ovo.CanCover(25000))
	assert.False(t, ovo.CanCover(25001))
}

func TestMethods_ReturnsACopy(t *testing.T) {
	ms := Methods()
	require.Len(t, ms, 3)
	ms[0].Label = "mutated"

	fresh := Methods()
	assert.Equal(t, "Tunai (Cash)", fresh[0].Label)
}
