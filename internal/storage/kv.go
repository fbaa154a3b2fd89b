package storage

import (
	"context"
	"sync"
)

// Reader exposes typed lookups over a flat key-value map.
type Reader interface {
	IntWithFallback(key string, fallback int) int
	BoolWithFallback(key string, fallback bool) bool
	// LookupString reports whether the key holds a string value.
	LookupString(key string) (string, bool)
}

// Editor stages changes inside KeyValue.Edit.
type Editor interface {
	Reader
	SetInt(key string, value int)
	SetBool(key string, value bool)
	SetString(key string, value string)
	Remove(key string)
}

// KeyValue is the durable scalar map the stores persist to.
type KeyValue interface {
	Reader
	// Edit applies all staged changes as one replacement and notifies
	// change listeners once.
	Edit(ctx context.Context, apply func(Editor)) error
	// OnChange registers a listener fired after every successful Edit.
	OnChange(listener func())
}

type listeners struct {
	mu    sync.Mutex
	funcs []func()
}

func (set *listeners) add(listener func()) {
	set.mu.Lock()
	defer set.mu.Unlock()
	set.funcs = append(set.funcs, listener)
}

func (set *listeners) notify() {
	set.mu.Lock()
	funcs := append([]func(){}, set.funcs...)
	set.mu.Unlock()
	for _, listener := range funcs {
		listener()
	}
}

// values is a plain map editor shared by the memory and YAML backends.
type values map[string]any

func (data values) IntWithFallback(key string, fallback int) int {
	if value, ok := data[key].(int); ok {
		return value
	}
	return fallback
}

func (data values) BoolWithFallback(key string, fallback bool) bool {
	if value, ok := data[key].(bool); ok {
		return value
	}
	return fallback
}

func (data values) LookupString(key string) (string, bool) {
	value, ok := data[key].(string)
	return value, ok
}

func (data values) SetInt(key string, value int)       { data[key] = value }
func (data values) SetBool(key string, value bool)     { data[key] = value }
func (data values) SetString(key string, value string) { data[key] = value }
func (data values) Remove(key string)                  { delete(data, key) }

func (data values) clone() values {
	cloned := make(values, len(data))
	for key, value := range data {
		cloned[key] = value
	}
	return cloned
}

// MemoryKV keeps values in process memory only.
type MemoryKV struct {
	mu        sync.RWMutex
	data      values
	listeners listeners
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: values{}}
}

func (store *MemoryKV) IntWithFallback(key string, fallback int) int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.data.IntWithFallback(key, fallback)
}

func (store *MemoryKV) BoolWithFallback(key string, fallback bool) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.data.BoolWithFallback(key, fallback)
}

func (store *MemoryKV) LookupString(key string) (string, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.data.LookupString(key)
}

// Edit applies changes to a copy and swaps it in.
func (store *MemoryKV) Edit(ctx context.Context, apply func(Editor)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.mu.Lock()
	staged := store.data.clone()
	apply(staged)
	store.data = staged
	store.mu.Unlock()

	store.listeners.notify()
	return nil
}

func (store *MemoryKV) OnChange(listener func()) {
	store.listeners.add(listener)
}
