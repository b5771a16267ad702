// Package jsonlite is a self-contained codec for the JSON subset this tool
// speaks on stdin/stdout: objects, arrays, strings, integers, booleans and
// null. Object members keep insertion order so encoded output is stable and
// byte-comparable. Floats and \uXXXX escapes are out of scope and rejected.
package jsonlite

// Kind tags a Value. Bool and Int are distinct kinds on purpose: a count of
// 0 or 1 must never be confused with a boolean during encoding.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	String
	Array
	Object
)

// Member is one ordered key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node in the tagged value tree.
type Value struct {
	Kind    Kind
	BoolVal bool
	IntVal  int64
	StrVal  string
	Items   []*Value
	Members []Member
}

func NewObject() *Value          { return &Value{Kind: Object} }
func NewArray() *Value           { return &Value{Kind: Array} }
func NewString(s string) *Value  { return &Value{Kind: String, StrVal: s} }
func NewInt(n int64) *Value      { return &Value{Kind: Int, IntVal: n} }
func NewBool(b bool) *Value      { return &Value{Kind: Bool, BoolVal: b} }
func NewNull() *Value            { return &Value{Kind: Null} }

// Set appends a member to an object. Duplicate keys are not detected; the
// builders in this repo never produce them.
func (v *Value) Set(key string, val *Value) *Value {
	v.Members = append(v.Members, Member{Key: key, Value: val})
	return v
}

// Append adds an element to an array.
func (v *Value) Append(val *Value) *Value {
	v.Items = append(v.Items, val)
	return v
}

// Get returns the first member with the given key.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// StringOr returns the value's string content, or fallback when the value is
// missing or not a string.
func (v *Value) StringOr(fallback string) string {
	if v == nil || v.Kind != String {
		return fallback
	}
	return v.StrVal
}

// BoolOr returns the value's boolean content, or fallback when the value is
// missing or not a boolean.
func (v *Value) BoolOr(fallback bool) bool {
	if v == nil || v.Kind != Bool {
		return fallback
	}
	return v.BoolVal
}
