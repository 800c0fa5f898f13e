package redis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/recolor/pkg/domain"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "recolor:"

// Library implements ports.VariableImporter over variables published in Redis.
// Each variable is a hash at <prefix>variable:<key> with fields id, key and name.
type Library struct {
	client *backend.Client
	prefix string
}

// Option configures the Redis adapters.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix sets the key prefix (default DefaultPrefix).
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a library connected to addr.
func New(addr, password string, db int, opts ...Option) *Library {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a library over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Library {
	o := buildOptions(opts)
	return &Library{client: client, prefix: o.prefix}
}

// Client returns the underlying client, to share it with a Locker.
func (l *Library) Client() *backend.Client {
	return l.client
}

func (l *Library) variableKey(key string) string {
	return l.prefix + "variable:" + key
}

// ImportByKey fetches the variable published under key.
func (l *Library) ImportByKey(ctx context.Context, key string) (domain.Variable, error) {
	key = strings.ToLower(key)
	fields, err := l.client.HGetAll(ctx, l.variableKey(key)).Result()
	if err != nil {
		return domain.Variable{}, fmt.Errorf("failed to import variable %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.Variable{}, fmt.Errorf("%w: %s", domain.ErrVariableNotFound, key)
	}
	return domain.Variable{
		ID:   fields["id"],
		Key:  fields["key"],
		Name: fields["name"],
	}, nil
}

// Publish stores v under its key. A missing ID is derived from the key.
func (l *Library) Publish(ctx context.Context, v domain.Variable) error {
	v.Key = strings.ToLower(v.Key)
	if v.Key == "" {
		return fmt.Errorf("variable %q has no key", v.Name)
	}
	if v.ID == "" {
		v.ID = "VariableID:" + v.Key + "/0:0"
	}
	err := l.client.HSet(ctx, l.variableKey(v.Key),
		"id", v.ID,
		"key", v.Key,
		"name", v.Name,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to publish variable %s: %w", v.Key, err)
	}
	return nil
}

// Unpublish removes the variable stored under key.
func (l *Library) Unpublish(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.variableKey(strings.ToLower(key))).Err()
}

// Keys lists the published keys, sorted.
func (l *Library) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	prefix := l.variableKey("")
	iter := l.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
