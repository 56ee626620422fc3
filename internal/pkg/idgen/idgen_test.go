package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokedex/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("quiz")

	id := gen.Generate()
	require.True(t, strings.HasPrefix(id, "quiz_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "quiz_"))
	assert.NoError(t, err)
	assert.NotEqual(t, id, gen.Generate())
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("quiz")
	assert.Equal(t, "quiz_1", gen.Generate())
	assert.Equal(t, "quiz_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}
