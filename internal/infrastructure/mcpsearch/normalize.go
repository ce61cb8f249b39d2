package mcpsearch

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
)

// Normalize converts heterogeneous search-result payloads into a flat ordered
// item list. The SDK hands back typed content values, plain maps decoded from
// JSON, or arbitrary values depending on the server; all of them collapse into
// {type, text} here. Total by construction: every arm of normalizeItem ends in
// the stringify fallback, so no input can fail.
func Normalize(raw any) []domain.ContentItem {
	if raw == nil {
		return nil
	}

	value := reflect.ValueOf(raw)
	if value.Kind() == reflect.Slice || value.Kind() == reflect.Array {
		items := make([]domain.ContentItem, 0, value.Len())
		for i := 0; i < value.Len(); i++ {
			items = append(items, normalizeItem(value.Index(i).Interface()))
		}
		return items
	}

	return []domain.ContentItem{normalizeItem(raw)}
}

func normalizeItem(item any) domain.ContentItem {
	// Plain mapping with type/text keys, possibly partial.
	if m, ok := item.(map[string]any); ok {
		itemType, hasType := stringField(m, "type")
		itemText, hasText := stringField(m, "text")
		if hasType || hasText {
			return contentItem(itemType, itemText)
		}
		return domain.ContentItem{Type: domain.ContentTypeText, Text: fmt.Sprintf("%v", m)}
	}

	// Values with a structured dump (the SDK content types marshal to their
	// wire shape, which carries type and text).
	if marshaler, ok := item.(json.Marshaler); ok {
		if dumped, ok := dumpObject(marshaler); ok {
			itemType, _ := stringField(dumped, "type")
			itemText, _ := stringField(dumped, "text")
			return contentItem(itemType, itemText)
		}
	}

	// Duck-typed structs exposing Type/Text fields.
	if itemType, itemText, ok := reflectTypeText(item); ok {
		return contentItem(itemType, itemText)
	}

	if stringer, ok := item.(fmt.Stringer); ok {
		return domain.ContentItem{Type: domain.ContentTypeText, Text: stringer.String()}
	}

	return domain.ContentItem{Type: domain.ContentTypeText, Text: fmt.Sprintf("%v", item)}
}

func contentItem(itemType, itemText string) domain.ContentItem {
	if itemType == "" {
		itemType = domain.ContentTypeText
	}
	return domain.ContentItem{Type: itemType, Text: itemText}
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v), true
	}
	return s, true
}

func dumpObject(marshaler json.Marshaler) (map[string]any, bool) {
	data, err := marshaler.MarshalJSON()
	if err != nil {
		return nil, false
	}
	var dumped map[string]any
	if err := json.Unmarshal(data, &dumped); err != nil {
		return nil, false
	}
	return dumped, true
}

func reflectTypeText(item any) (string, string, bool) {
	value := reflect.ValueOf(item)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", "", false
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", "", false
	}

	itemType, hasType := reflectStringField(value, "Type")
	itemText, hasText := reflectStringField(value, "Text")
	if !hasType && !hasText {
		return "", "", false
	}
	return itemType, itemText, true
}

func reflectStringField(value reflect.Value, name string) (string, bool) {
	field := value.FieldByName(name)
	if !field.IsValid() || field.Kind() != reflect.String {
		return "", false
	}
	return field.String(), true
}
