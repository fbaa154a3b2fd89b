package storage

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
)

// missingString cannot be typed by a user, so it marks absent string keys.
const missingString = "\x00meditimer:missing"

// PreferencesKV stores values in the Fyne application preferences, which
// map to the platform preference store.
type PreferencesKV struct {
	mu        sync.RWMutex
	prefs     fyne.Preferences
	listeners listeners
}

// NewPreferencesKV wraps prefs.
func NewPreferencesKV(prefs fyne.Preferences) *PreferencesKV {
	return &PreferencesKV{prefs: prefs}
}

func (store *PreferencesKV) IntWithFallback(key string, fallback int) int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.prefs.IntWithFallback(key, fallback)
}

func (store *PreferencesKV) BoolWithFallback(key string, fallback bool) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.prefs.BoolWithFallback(key, fallback)
}

func (store *PreferencesKV) LookupString(key string) (string, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return lookupPreference(store.prefs, key)
}

// Edit applies changes in order. Readers wait for the whole batch, so they
// never observe part of it.
func (store *PreferencesKV) Edit(ctx context.Context, apply func(Editor)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.mu.Lock()
	apply(preferencesEditor{store: store})
	store.mu.Unlock()

	store.listeners.notify()
	return nil
}

func (store *PreferencesKV) OnChange(listener func()) {
	store.listeners.add(listener)
}

type preferencesEditor struct {
	store *PreferencesKV
}

// Editor reads go straight to the preferences since Edit holds the lock.
func (editor preferencesEditor) IntWithFallback(key string, fallback int) int {
	return editor.store.prefs.IntWithFallback(key, fallback)
}

func (editor preferencesEditor) BoolWithFallback(key string, fallback bool) bool {
	return editor.store.prefs.BoolWithFallback(key, fallback)
}

func (editor preferencesEditor) LookupString(key string) (string, bool) {
	return lookupPreference(editor.store.prefs, key)
}

func (editor preferencesEditor) SetInt(key string, value int) {
	editor.store.prefs.SetInt(key, value)
}

func (editor preferencesEditor) SetBool(key string, value bool) {
	editor.store.prefs.SetBool(key, value)
}

func (editor preferencesEditor) SetString(key string, value string) {
	editor.store.prefs.SetString(key, value)
}

func (editor preferencesEditor) Remove(key string) {
	editor.store.prefs.RemoveValue(key)
}

func lookupPreference(prefs fyne.Preferences, key string) (string, bool) {
	value := prefs.StringWithFallback(key, missingString)
	if value == missingString {
		return "", false
	}
	return value, true
}
