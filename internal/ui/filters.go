package ui

import (
	"fmt"
	"html/template"
	"reflect"
	"strings"
)

// Concat appends arg to value, both formatted as text / Concatène arg à value
func Concat(value, arg any) string {
	return fmt.Sprint(value) + fmt.Sprint(arg)
}

// Split splits value on sep / Découpe value sur sep
func Split(value, sep string) []string {
	return strings.Split(value, sep)
}

// Replace takes "old,new" and replaces every old with new in value.
// Remplace chaque old par new dans value.
func Replace(value, arg string) (string, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return "", fmt.Errorf("replace expects \"old,new\", got %q", arg)
	}
	return strings.ReplaceAll(value, parts[0], parts[1]), nil
}

// GetItem returns m[key], or nil when m is not a map or key is missing.
// Retourne m[key] ou nil.
func GetItem(m, key any) any {
	mv := reflect.ValueOf(m)
	if mv.Kind() != reflect.Map || key == nil {
		return nil
	}
	kv := reflect.ValueOf(key)
	if !kv.Type().AssignableTo(mv.Type().Key()) {
		if !kv.Type().ConvertibleTo(mv.Type().Key()) {
			return nil
		}
		kv = kv.Convert(mv.Type().Key())
	}
	v := mv.MapIndex(kv)
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// FuncMap exposes the helpers to html/template under their tag names.
func FuncMap(styles *StyleRegistry) template.FuncMap {
	return template.FuncMap{
		"concat":               Concat,
		"split":                Split,
		"replace":              Replace,
		"get_item":             GetItem,
		"init_button_groups":   InitButtonGroups,
		"init_content_toggles": InitContentToggles,
		"invoke_action":        InvokeAction,
		"style":                styles.Classes,
	}
}
