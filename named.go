package gosig

import (
	"reflect"
	"sync"
)

var (
	nameRegMu sync.RWMutex
	namePreds = map[string]func(v any) bool{}
)

// RegisterName registers a predicate consulted by Named(name) schemas before
// the reflective ancestor walk. It lets types opt into a late-bound name
// without that name appearing in their type identity. Registration is meant
// to happen during process initialization; passing a nil predicate removes
// the entry.
func RegisterName(name string, pred func(v any) bool) {
	nameRegMu.Lock()
	if pred == nil {
		delete(namePreds, name)
	} else {
		namePreds[name] = pred
	}
	nameRegMu.Unlock()
}

func matchesName(v any, name string) bool {
	nameRegMu.RLock()
	pred := namePreds[name]
	nameRegMu.RUnlock()
	if pred != nil && pred(v) {
		return true
	}
	if v == nil {
		return false
	}
	return hasAncestorName(reflect.TypeOf(v), name, nil)
}

// hasAncestorName walks t and the types it embeds looking for name. Embedded
// anonymous fields are the Go stand-in for ancestor classes; a *T embedding
// can recurse into itself, hence the seen guard.
func hasAncestorName(t reflect.Type, name string, seen map[reflect.Type]bool) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if seen[t] {
		return false
	}
	if t.Name() == name {
		return true
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	if seen == nil {
		seen = map[reflect.Type]bool{}
	}
	seen[t] = true
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && hasAncestorName(f.Type, name, seen) {
			return true
		}
	}
	return false
}
