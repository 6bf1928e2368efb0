package proto

import (
	"bytes"
	"encoding/json"
)

// Text is a request field that keeps track of whether it was provided and
// whether it was a string, so validation can tell "missing" apart from
// "wrong type".
type Text struct {
	value   string
	present bool
	isText  bool
}

// String returns a Text holding s.
func String(s string) Text {
	return Text{value: s, present: true, isText: true}
}

// OptionalString returns a Text holding *s, or an absent Text when s is nil.
func OptionalString(s *string) Text {
	if s == nil {
		return Text{}
	}
	return String(*s)
}

// NonText returns a Text that was provided but is not a string, such as a
// JSON number.
func NonText() Text {
	return Text{present: true}
}

// Value returns the string value. It is empty unless IsText is true.
func (t Text) Value() string {
	return t.value
}

// Present reports whether the field was provided with a non-null value.
func (t Text) Present() bool {
	return t.present
}

// IsText reports whether the field holds a string.
func (t Text) IsText() bool {
	return t.isText
}

// Empty reports whether the field is missing or an empty string.
func (t Text) Empty() bool {
	return !t.present || (t.isText && t.value == "")
}

// Ptr returns a pointer to the value, or nil when the field is empty.
func (t Text) Ptr() *string {
	if t.Empty() || !t.isText {
		return nil
	}
	v := t.value
	return &v
}

var (
	_ json.Unmarshaler = (*Text)(nil)
	_ json.Marshaler   = Text{}
)

// UnmarshalJSON implements json.Unmarshaler. It never fails: JSON null leaves
// the field absent and non-string values mark it as present but not text.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	t.present = true
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		t.value = s
		t.isText = true
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.present || !t.isText {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}
