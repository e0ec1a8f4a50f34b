package dao

import (
	"context"
)

// Service is the generic record store used by the workflow engine.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}

// Statused is implemented by records that carry a lifecycle status so that
// stores can apply status parameters.
type Statused interface {
	StatusOf() string
}
