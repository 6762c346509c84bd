package textnorm

import "encoding/json"

// Loose is a string list that decodes from whatever shape a semi-structured
// record carries. Arrays keep their string members; every other JSON value
// (a bare string, a number, an object, null) decodes to an empty list.
// Decoding never fails.
type Loose []string

func (l *Loose) UnmarshalJSON(b []byte) error {
	*l = Loose{}

	var arr []any
	if err := json.Unmarshal(b, &arr); err != nil {
		return nil
	}
	for _, e := range arr {
		if s, ok := e.(string); ok {
			*l = append(*l, s)
		}
	}
	return nil
}

// Strings returns the list as a plain slice, never nil.
func (l Loose) Strings() []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

// LooseString is a free-text field that decodes from any JSON value. A JSON
// string keeps its content; every other value decodes to "". Decoding never
// fails.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		*s = ""
		return nil
	}
	*s = LooseString(v)
	return nil
}

func (s LooseString) String() string {
	return string(s)
}
