package redis

import "fmt"

const (
	// KeyPrefixState is the prefix of per-namespace state hashes
	KeyPrefixState = "marks:state:"
)

// StateKey returns the Redis hash key holding one namespace's state
func StateKey(namespace string) string {
	return KeyPrefixState + namespace
}

// ExtractNamespace extracts the namespace from a state hash key
func ExtractNamespace(key string) (string, error) {
	if len(key) <= len(KeyPrefixState) || key[:len(KeyPrefixState)] != KeyPrefixState {
		return "", fmt.Errorf("invalid state key: %s", key)
	}
	return key[len(KeyPrefixState):], nil
}
