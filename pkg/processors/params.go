package processors

import "fmt"

// Параметры процессоров приходят из YAML (map[string]any / []any)
// либо из Go-кода (map[string]string / []string). Хелперы ниже принимают оба вида.

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
}

func stringMap(v any) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, item := range m {
			out[k] = fmt.Sprintf("%v", item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected mapping of strings, got %T", v)
	}
}
