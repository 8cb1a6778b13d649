// Package repository persists learner state as JSON documents on top of a
// pluggable key-value DocumentStore.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrDocumentNotFound is returned by a DocumentStore when the key is absent.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrCorruptDocument is returned when a stored document cannot be decoded
	// or violates the model invariants.
	ErrCorruptDocument = errors.New("corrupt document")
)

// DocumentStore is a durable key-value blob store.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

const (
	progressPrefix = "progress:"
	reviewsPrefix  = "reviews:"
)

func progressKey(userID int64) string {
	return progressPrefix + strconv.FormatInt(userID, 10)
}

func reviewsKey(userID int64) string {
	return reviewsPrefix + strconv.FormatInt(userID, 10)
}

// userIDsWithPrefix lists the users that own a document under prefix.
func userIDsWithPrefix(ctx context.Context, store DocumentStore, prefix string) ([]int64, error) {
	keys, err := store.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	ids := make([]int64, 0, len(keys))
	for _, key := range keys {
		id, err := strconv.ParseInt(strings.TrimPrefix(key, prefix), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}
