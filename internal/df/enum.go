package df

import "encoding/json"

type named interface {
	~int | ~int8 | ~int16 | ~int32
	String() string
}

// unmarshalName decodes a JSON string into the value among values whose
// String matches it. Unknown names decode to fallback.
func unmarshalName[T named](data []byte, fallback T, values ...T) (T, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fallback, err
	}
	for _, v := range values {
		if v.String() == name {
			return v, nil
		}
	}
	return fallback, nil
}

func upTo[T ~int | ~int32](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(i)
	}
	return out
}
