package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps one namespace of client state in a Redis hash.
// It satisfies state.Storage, so a BFF fleet can share a session.
type Store struct {
	client    *redis.Client
	namespace string
}

// NewStore creates a new Redis store for namespace
func NewStore(client *redis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = "default"
	}
	return &Store{
		client:    client,
		namespace: namespace,
	}
}

// Get retrieves one field of the namespace hash
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, StateKey(s.namespace), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get state %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes one field
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, StateKey(s.namespace), key, value).Err(); err != nil {
		return fmt.Errorf("failed to set state %s: %w", key, err)
	}
	return nil
}

// SetMany writes all fields in one HSET so readers never see a partial update
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, StateKey(s.namespace), args...).Err(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Remove deletes fields from the namespace hash
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, StateKey(s.namespace), keys...).Err(); err != nil {
		return fmt.Errorf("failed to remove state: %w", err)
	}
	return nil
}

// Namespaces lists every namespace that currently holds state
func (s *Store) Namespaces(ctx context.Context) ([]string, error) {
	var out []string
	iter := s.client.Scan(ctx, 0, KeyPrefixState+"*", 0).Iterator()
	for iter.Next(ctx) {
		ns, err := ExtractNamespace(iter.Val())
		if err != nil {
			continue
		}
		out = append(out, ns)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan namespaces: %w", err)
	}
	return out, nil
}

// Ping checks the connection, used by the /infra endpoint
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
