package reporter

import (
	"encoding/json"

	"github.com/aleister1102/artemis-extras/internal/models"
)

// decodeList returns the result body as a list of raw items. ok is false
// when the body is not a JSON array.
func decodeList(result models.TaskResult) (items []json.RawMessage, ok bool) {
	if err := result.DecodeResult(&items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// decodeObject returns the result body as an object. ok is false when the
// body is not a JSON object.
func decodeObject(result models.TaskResult) (obj map[string]any, ok bool) {
	if err := result.DecodeResult(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	return s, ok
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func listField(obj map[string]any, key string) []any {
	list, _ := obj[key].([]any)
	return list
}
