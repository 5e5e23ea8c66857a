// Package fieldtypes holds the per-column strategies that turn cell values
// into clipboard text and rich values and back.
package fieldtypes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"gridclip/pkg/models"
)

// FieldType serializes and deserializes the values of one kind of column.
//
// PrepareValueForPaste receives the pasted text and, when the clipboard
// carried it, the rich value that was copied with it. A usable rich value
// wins over the text. ok is false when neither yields a value, in which
// case the cell must be left as it is.
type FieldType interface {
	Type() string
	PrepareValueForCopy(field models.Field, value any) string
	PrepareRichValueForCopy(field models.Field, value any) any
	PrepareValueForPaste(field models.Field, text string, rich json.RawMessage) (value any, ok bool)
	EmptyValue(field models.Field) any
}

// UnknownTypeError is returned by Get for an unregistered tag.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown field type %q", e.Type)
}

// Registry resolves field types by their type tag.
type Registry struct {
	mu    sync.RWMutex
	types map[string]FieldType
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]FieldType)}
}

// Register adds ft. Registering the same tag twice is an error.
func (r *Registry) Register(ft FieldType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[ft.Type()]; exists {
		return fmt.Errorf("field type %q already registered", ft.Type())
	}
	r.types[ft.Type()] = ft
	return nil
}

func (r *Registry) Get(tag string) (FieldType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ft, ok := r.types[tag]
	if !ok {
		return nil, &UnknownTypeError{Type: tag}
	}
	return ft, nil
}

// Types returns the registered tags, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding every built-in field type.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, ft := range builtins() {
			if err := defaultRegistry.Register(ft); err != nil {
				panic(err)
			}
		}
	})
	return defaultRegistry
}

func builtins() []FieldType {
	return []FieldType{
		textType{tag: models.FieldText},
		textType{tag: models.FieldLongText},
		numberType{},
		booleanType{},
		dateType{},
		singleSelectType{},
		multipleSelectType{},
		linkRowType{},
		fileType{},
	}
}

// isAbsent reports whether a rich value carries nothing.
func isAbsent(rich json.RawMessage) bool {
	trimmed := bytes.TrimSpace(rich)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
