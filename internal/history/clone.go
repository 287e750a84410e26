package history

import "encoding/json"

// Cloner is implemented by states that can deep-copy themselves. The engine
// prefers it over the JSON fallback, which rewrites invalid UTF-8.
type Cloner[S any] interface {
	Clone() S
}

func defaultClone[S any](v S) S {
	if c, ok := any(v).(Cloner[S]); ok {
		return c.Clone()
	}
	return jsonClone(v)
}

// jsonClone deep-copies v through JSON. Unexported fields are not copied.
func jsonClone[S any](v S) S {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out S
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
