package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AnswerKind tags the value held by an AnswerValue. The zero kind is null.
type AnswerKind int

const (
	AnswerNull AnswerKind = iota
	AnswerString
	AnswerNumber
	AnswerBool
	AnswerList
)

// AnswerValue is a single workbook answer: a string, a number, a boolean or a list of strings.
type AnswerValue struct {
	Kind AnswerKind
	Str  string
	Num  float64
	Bool bool
	List []string
}

func StringAnswer(s string) AnswerValue      { return AnswerValue{Kind: AnswerString, Str: s} }
func NumberAnswer(n float64) AnswerValue     { return AnswerValue{Kind: AnswerNumber, Num: n} }
func BoolAnswer(b bool) AnswerValue          { return AnswerValue{Kind: AnswerBool, Bool: b} }
func ListAnswer(items ...string) AnswerValue { return AnswerValue{Kind: AnswerList, List: items} }

// IsBlank reports whether the answer is null or an empty string.
func (v AnswerValue) IsBlank() bool {
	switch v.Kind {
	case AnswerNull:
		return true
	case AnswerString:
		return v.Str == ""
	default:
		return false
	}
}

// Number returns the numeric value for number answers.
func (v AnswerValue) Number() (float64, bool) {
	if v.Kind != AnswerNumber {
		return 0, false
	}
	return v.Num, true
}

// String renders the answer the way it is shown to the model.
func (v AnswerValue) String() string {
	switch v.Kind {
	case AnswerString:
		return v.Str
	case AnswerNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case AnswerBool:
		return strconv.FormatBool(v.Bool)
	case AnswerList:
		return strings.Join(v.List, ", ")
	default:
		return ""
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerString:
		return json.Marshal(v.Str)
	case AnswerNumber:
		return json.Marshal(v.Num)
	case AnswerBool:
		return json.Marshal(v.Bool)
	case AnswerList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty answer value")
	}

	switch data[0] {
	case 'n':
		*v = AnswerValue{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringAnswer(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolAnswer(b)
		return nil
	case '[':
		var raw []interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, item := range raw {
			switch it := item.(type) {
			case nil:
				continue
			case string:
				items = append(items, it)
			case float64:
				items = append(items, strconv.FormatFloat(it, 'f', -1, 64))
			case bool:
				items = append(items, strconv.FormatBool(it))
			default:
				return fmt.Errorf("unsupported list item %T", item)
			}
		}
		*v = ListAnswer(items...)
		return nil
	case '{':
		return errors.New("object answers are not supported")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberAnswer(n)
		return nil
	}
}

// Answers maps question ids to answers and remembers insertion order, so
// prompts built from the same submission always read the same.
type Answers struct {
	keys   []string
	values map[string]AnswerValue
}

func NewAnswers() Answers {
	return Answers{values: make(map[string]AnswerValue)}
}

func (a Answers) Len() int {
	return len(a.keys)
}

func (a Answers) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a Answers) Get(key string) (AnswerValue, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Set stores a value. Existing keys keep their position.
func (a *Answers) Set(key string, v AnswerValue) {
	if a.values == nil {
		a.values = make(map[string]AnswerValue)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = v
}

// Merge returns a shallow merge of a and other; keys from other win.
func (a Answers) Merge(other Answers) Answers {
	out := NewAnswers()
	for _, k := range a.keys {
		out.Set(k, a.values[k])
	}
	for _, k := range other.keys {
		out.Set(k, other.values[k])
	}
	return out
}

func (a Answers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := a.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Answers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = NewAnswers()
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("answers must be a JSON object, got %v", tok)
	}

	out := NewAnswers()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected answer key %v", keyTok)
		}
		var v AnswerValue
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("answer %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}
