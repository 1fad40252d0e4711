package utils

// DeepCloneValue copies a dynamic payload tree so the clone shares no
// mutable state with the original. Payloads are what a generic yaml
// decode produces: scalars, map[string]interface{}, []interface{},
// plus map[string]string for normalized name mappings.
func DeepCloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = DeepCloneValue(item)
		}
		return m
	case map[string]string:
		m := make(map[string]string, len(val))
		for k, item := range val {
			m[k] = item
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = DeepCloneValue(item)
		}
		return s
	default:
		return val
	}
}
