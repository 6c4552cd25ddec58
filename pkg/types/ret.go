package types

import "encoding/json"

// Ret is a service return payload. On the wire it is always a plain string;
// most services put a JSON document in it, but plain-string returns are valid
// too. Ret therefore keeps the raw string and, after Decoded has been applied,
// additionally the structured form when the string parses as JSON. A string
// that does not parse is not an error.
type Ret struct {
	raw        string
	value      any
	structured bool
}

// NewRet wraps a raw return string without attempting to decode it.
func NewRet(raw string) Ret {
	return Ret{raw: raw}
}

// Raw returns the string exactly as the node sent it.
func (r Ret) Raw() string { return r.raw }

// Structured reports whether Decoded found a JSON document in the raw string.
func (r Ret) Structured() bool { return r.structured }

// Value returns the decoded form when the payload was structured, otherwise
// the raw string.
func (r Ret) Value() any {
	if r.structured {
		return r.value
	}
	return r.raw
}

// Decoded returns a copy with the raw string parsed as JSON when possible.
// A parse failure leaves the copy unstructured; the raw string stands as the
// result.
func (r Ret) Decoded() Ret {
	var v any
	if err := json.Unmarshal([]byte(r.raw), &v); err != nil {
		return Ret{raw: r.raw}
	}
	return Ret{raw: r.raw, value: v, structured: true}
}

// Unmarshal parses the raw string into out. Unlike Decoded, a parse failure
// here is an error: the caller asked for a concrete shape.
func (r Ret) Unmarshal(out any) error {
	return json.Unmarshal([]byte(r.raw), out)
}

// MarshalJSON writes the raw string, preserving round trips with the node.
func (r Ret) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.raw)
}

// UnmarshalJSON stores the raw string. Decoding is deliberately not attempted
// here: whether a return value may be interpreted depends on the surrounding
// response (an error response's ret is a bare message and must stay one).
func (r *Ret) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Ret{raw: s}
	return nil
}
