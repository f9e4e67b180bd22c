package fitsmeta

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which payload a KeywordValue carries.
type Kind int

const (
	KindNone Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindString
	KindComment
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindComment:
		return "Comment"
	case KindDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// KeywordValue is one decoded header entry. Exactly one payload is populated,
// selected by Kind; the typed accessors refuse to read any other payload.
type KeywordValue struct {
	Name    string
	Kind    Kind
	Raw     string
	Comment string

	b bool
	i int64
	f float64
	s string
	t time.Time
}

// NoneValue is a keyword with an empty value field.
func NoneValue(name string) KeywordValue { return KeywordValue{Name: name, Kind: KindNone} }

// BoolValue is a logical keyword, rendered as T or F.
func BoolValue(name string, v bool) KeywordValue {
	raw := "F"
	if v {
		raw = "T"
	}
	return KeywordValue{Name: name, Kind: KindBoolean, Raw: raw, b: v}
}

// IntValue is an integer keyword.
func IntValue(name string, v int64) KeywordValue {
	return KeywordValue{Name: name, Kind: KindInteger, Raw: strconv.FormatInt(v, 10), i: v}
}

// RealValue is a floating-point keyword.
func RealValue(name string, v float64) KeywordValue {
	return KeywordValue{Name: name, Kind: KindReal, Raw: formatReal(v), f: v}
}

// StringValue is a quoted character-string keyword.
func StringValue(name, v string) KeywordValue {
	return KeywordValue{Name: name, Kind: KindString, Raw: quoteString(v), s: v}
}

// CommentValue is commentary text for COMMENT, HISTORY or a blank keyword.
func CommentValue(name, text string) KeywordValue {
	return KeywordValue{Name: name, Kind: KindComment, Raw: text, s: text}
}

// DateValue keeps the literal as written in Raw so it can be rendered back unchanged.
func DateValue(name string, t time.Time, literal string) KeywordValue {
	return KeywordValue{Name: name, Kind: KindDate, Raw: literal, t: t}
}

// WithComment returns a copy of v carrying the given card comment.
func (v KeywordValue) WithComment(comment string) KeywordValue {
	v.Comment = comment
	return v
}

func (v KeywordValue) mismatch(want Kind) error {
	return &KindMismatchError{Name: v.Name, Want: want, Got: v.Kind}
}

// Bool returns the payload of a Boolean keyword.
func (v KeywordValue) Bool() (bool, error) {
	if v.Kind != KindBoolean {
		return false, v.mismatch(KindBoolean)
	}
	return v.b, nil
}

// Int returns the payload of an Integer keyword.
func (v KeywordValue) Int() (int64, error) {
	if v.Kind != KindInteger {
		return 0, v.mismatch(KindInteger)
	}
	return v.i, nil
}

// Real returns the payload of a Real keyword.
func (v KeywordValue) Real() (float64, error) {
	if v.Kind != KindReal {
		return 0, v.mismatch(KindReal)
	}
	return v.f, nil
}

// Number reads an Integer or Real payload as float64. Integer widening is the
// only conversion any accessor performs.
func (v KeywordValue) Number() (float64, error) {
	switch v.Kind {
	case KindInteger:
		return float64(v.i), nil
	case KindReal:
		return v.f, nil
	default:
		return 0, v.mismatch(KindReal)
	}
}

// Str returns the unquoted payload of a String keyword.
func (v KeywordValue) Str() (string, error) {
	if v.Kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.s, nil
}

// Text returns the commentary of a Comment keyword.
func (v KeywordValue) Text() (string, error) {
	if v.Kind != KindComment {
		return "", v.mismatch(KindComment)
	}
	return v.s, nil
}

// Time returns the UTC timestamp of a Date keyword.
func (v KeywordValue) Time() (time.Time, error) {
	if v.Kind != KindDate {
		return time.Time{}, v.mismatch(KindDate)
	}
	return v.t, nil
}

// Value returns the payload for display purposes.
func (v KeywordValue) Value() string {
	switch v.Kind {
	case KindNone:
		return ""
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString, KindComment:
		return v.s
	case KindDate:
		return v.t.Format(time.RFC3339Nano)
	default:
		return v.Raw
	}
}

func (v KeywordValue) String() string {
	return fmt.Sprintf("%s(%s)=%s", v.Name, v.Kind, v.Value())
}

// Card formats v as a single 80-column header card.
func (v KeywordValue) Card() string {
	var card string
	switch v.Kind {
	case KindComment:
		card = fmt.Sprintf("%-8s%s", v.Name, v.s)
	default:
		value := v.Raw
		if v.Kind == KindDate && value == "" {
			value = quoteString(v.t.UTC().Format("2006-01-02T15:04:05"))
		}
		if v.Kind == KindString && len(value) > maxValueWidth {
			value = fitString(v.s)
		}
		card = fmt.Sprintf("%-8s= %20s", v.Name, value)
		if v.Kind == KindString || v.Kind == KindDate {
			card = fmt.Sprintf("%-8s= %-20s", v.Name, value)
		}
		if v.Comment != "" {
			card += " / " + v.Comment
		}
	}
	return padCard(card)
}

// maxValueWidth is the room left on a card after "KEYWORD = ".
const maxValueWidth = CardWidth - 10

// fitString quotes the longest prefix of s whose quoted form still fits on the
// card, so an over-long string loses its tail instead of its closing quote.
func fitString(s string) string {
	for len(s) > 0 {
		if q := quoteString(s); len(q) <= maxValueWidth {
			return q
		}
		s = s[:len(s)-1]
	}
	return quoteString(s)
}

func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'E' || c == 'N' || c == 'I' {
			return s
		}
	}
	return s + ".0"
}
