package ports

import (
	"context"
	"testing"

	"github.com/aretw0/recolor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunVariableImporterContract runs a suite of tests to verify that a VariableImporter
// implementation adheres to the defined interface contract.
// seeded must already be published in importer.
func RunVariableImporterContract(t *testing.T, importer VariableImporter, seeded []domain.Variable) {
	ctx := context.Background()
	require.NotEmpty(t, seeded, "contract needs at least one seeded variable")

	t.Run("Import Seeded", func(t *testing.T) {
		for _, want := range seeded {
			got, err := importer.ImportByKey(ctx, want.Key)
			require.NoError(t, err, "ImportByKey(%s) should not return error", want.Key)
			assert.Equal(t, want.Key, got.Key)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Name, got.Name)
		}
	})

	t.Run("Import Missing", func(t *testing.T) {
		_, err := importer.ImportByKey(ctx, "0000000000000000000000000000000000000000")
		assert.ErrorIs(t, err, domain.ErrVariableNotFound)
	})

	t.Run("Repeated Import", func(t *testing.T) {
		first, err := importer.ImportByKey(ctx, seeded[0].Key)
		require.NoError(t, err)
		second, err := importer.ImportByKey(ctx, seeded[0].Key)
		require.NoError(t, err)
		assert.Equal(t, first, second, "importing twice should yield the same variable")
	})
}
