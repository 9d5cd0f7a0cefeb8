package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Collection is a keyed set of records that keeps document key order.
type Collection[T any] struct {
	keys  []string
	items map[string]*T
}

// NewCollection returns an empty collection.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{items: make(map[string]*T)}
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the record keys in document order.
func (c *Collection[T]) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Get returns the record stored under key.
func (c *Collection[T]) Get(key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.items[key]
	return v, ok
}

// Set stores v under key, appending the key when it is new.
func (c *Collection[T]) Set(key string, v *T) {
	if c.items == nil {
		c.items = make(map[string]*T)
	}
	if _, ok := c.items[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.items[key] = v
}

// Delete removes key.
func (c *Collection[T]) Delete(key string) {
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Each calls fn for every record in document order, stopping at the first error.
func (c *Collection[T]) Each(fn func(key string, v *T) error) error {
	if c == nil {
		return nil
	}
	for _, k := range c.keys {
		if err := fn(k, c.items[k]); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes an object strictly, keeping key order.
func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object", ErrMalformed)
	}
	c.keys = nil
	c.items = make(map[string]*T)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		v := new(T)
		if err := DecodeStrict(raw, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the collection as an object in key order.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(c.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
