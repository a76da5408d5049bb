package parkingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// listShape tags which of the backend's two list encodings a response used
type listShape int

const (
	shapeEmpty   listShape = iota // null or empty body
	shapeBare                     // [ ... ]
	shapeWrapped                  // { "<key>": [ ... ], ... }
)

func (s listShape) String() string {
	switch s {
	case shapeBare:
		return "bare"
	case shapeWrapped:
		return "wrapped"
	default:
		return "empty"
	}
}

// listResponse decodes a list endpoint that may answer with either a bare array or an
// object carrying the array under key. Callers only ever see Items.
type listResponse[T any] struct {
	key   string
	shape listShape
	Items []T
}

func newListResponse[T any](key string) *listResponse[T] {
	return &listResponse[T]{key: key}
}

func (l *listResponse[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		l.shape = shapeEmpty
		l.Items = []T{}
		return nil

	case trimmed[0] == '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("failed to decode %s list: %w", l.key, err)
		}
		l.shape = shapeBare
		l.Items = items
		return nil

	case trimmed[0] == '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return fmt.Errorf("failed to decode %s envelope: %w", l.key, err)
		}
		inner, ok := envelope[l.key]
		if !ok {
			return fmt.Errorf("response object has no %q list", l.key)
		}
		var items []T
		if err := json.Unmarshal(inner, &items); err != nil {
			return fmt.Errorf("failed to decode %s list: %w", l.key, err)
		}
		if items == nil {
			items = []T{}
		}
		l.shape = shapeWrapped
		l.Items = items
		return nil

	default:
		return fmt.Errorf("unexpected %s response: %.40s", l.key, string(trimmed))
	}
}

// getList fetches a list endpoint and normalises its shape
func getList[T any](ctx context.Context, c *Client, endpoint, key string) ([]T, error) {
	raw, err := c.requestRaw(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	list := newListResponse[T](key)
	if err := list.UnmarshalJSON(raw); err != nil {
		return nil, err
	}

	return list.Items, nil
}
