package ports

import (
	"context"

	"github.com/aretw0/recolor/pkg/domain"
)

// VariableImporter retrieves published variables by their canonical key.
type VariableImporter interface {
	// ImportByKey returns the variable published under key.
	// Returns an error wrapping domain.ErrVariableNotFound if nothing is published under key.
	ImportByKey(ctx context.Context, key string) (domain.Variable, error)
}

// ImporterFunc adapts a function to VariableImporter.
type ImporterFunc func(ctx context.Context, key string) (domain.Variable, error)

func (f ImporterFunc) ImportByKey(ctx context.Context, key string) (domain.Variable, error) {
	return f(ctx, key)
}
