package fitsmeta

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// CardWidth is the fixed width of a header card.
const CardWidth = 80

var (
	reInteger = regexp.MustCompile(`^[+-]?[0-9]+$`)
	reReal    = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[EeDd][+-]?[0-9]+)?$`)
	reDate    = regexp.MustCompile(`^(?:[0-9]{4}-[01][0-9]-[0-3][0-9](?:T[012][0-9]:[0-5][0-9]:[0-5][0-9](?:\.[0-9]+)?)?|[0-3][0-9]/[01][0-9]/[0-9]{2})$`)
)

var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/06",
}

// Cards splits newline-separated header text into 80-column cards. Lines are
// right-padded with blanks and truncated past column 80. Blank lines are
// skipped and the END card terminates the sequence without being yielded.
func Cards(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.SplitSeq(text, "\n") {
			line = strings.TrimSuffix(line, "\r")
			if line == "" {
				continue
			}
			card := padCard(line)
			if strings.HasPrefix(card, "END ") {
				return
			}
			if !yield(card) {
				return
			}
		}
	}
}

func padCard(s string) string {
	if len(s) >= CardWidth {
		return s[:CardWidth]
	}
	return s + strings.Repeat(" ", CardWidth-len(s))
}

// ParseHeader parses newline-separated header text into a Header. Parsing stops
// at the first malformed card; no partial header is returned.
func ParseHeader(text string) (*Header, error) {
	h := NewHeader()
	index := 0
	for card := range Cards(text) {
		kv, err := ParseCard(card)
		if err != nil {
			var mce *MalformedCardError
			if errors.As(err, &mce) {
				mce.Index = index
			}
			return nil, err
		}
		h.Append(kv)
		index++
	}
	return h, nil
}

// ParseCard decodes a single padded card of the form "KEYWORD = VALUE / comment".
func ParseCard(card string) (KeywordValue, error) {
	card = padCard(card)
	name := strings.TrimSpace(card[:8])
	if i := nonASCII(card); i >= 0 {
		return KeywordValue{}, &MalformedCardError{Keyword: name, Card: card,
			Reason: fmt.Sprintf("non-ASCII byte 0x%02x at column %d", card[i], i+1)}
	}

	if name == "" || name == "COMMENT" || name == "HISTORY" {
		return CommentValue(name, strings.TrimRight(card[8:], " ")), nil
	}
	if card[8:10] != "= " {
		return KeywordValue{}, &MalformedCardError{Keyword: name, Card: card, Reason: "missing value indicator"}
	}

	value, comment, err := splitValue(card[10:])
	if err != nil {
		return KeywordValue{}, &MalformedCardError{Keyword: name, Card: card, Reason: err.Error()}
	}
	kv, ok := typeValue(name, value)
	if !ok {
		return KeywordValue{}, &MalformedCardError{Keyword: name, Card: card, Reason: "unrecognized value " + strconv.Quote(value)}
	}
	return kv.WithComment(comment), nil
}

// nonASCII returns the index of the first byte outside 7-bit ASCII, or -1.
func nonASCII(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return i
		}
	}
	return -1
}

type cardSyntaxError string

func (e cardSyntaxError) Error() string { return string(e) }

// splitValue separates the value field from a trailing "/ comment", skipping
// slashes inside quoted strings. The value comes back trimmed, quotes intact.
func splitValue(field string) (value, comment string, err error) {
	trimmed := strings.TrimLeft(field, " ")
	if strings.HasPrefix(trimmed, "'") {
		end := closingQuote(trimmed)
		if end < 0 {
			return "", "", cardSyntaxError("unterminated string")
		}
		value = trimmed[:end+1]
		rest := strings.TrimSpace(trimmed[end+1:])
		switch {
		case rest == "":
		case strings.HasPrefix(rest, "/"):
			comment = strings.TrimSpace(rest[1:])
		default:
			return "", "", cardSyntaxError("unexpected text after string")
		}
		return value, comment, nil
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		comment = strings.TrimSpace(trimmed[i+1:])
		trimmed = trimmed[:i]
	}
	return strings.TrimSpace(trimmed), comment, nil
}

// closingQuote returns the index of the quote closing the string that opens
// at s[0], treating doubled quotes as escaped.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i++
			continue
		}
		return i
	}
	return -1
}

func typeValue(name, value string) (KeywordValue, bool) {
	switch {
	case value == "":
		return NoneValue(name), true
	case value == "T" || value == "F":
		return BoolValue(name, value == "T"), true
	case reInteger.MatchString(value):
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return IntValue(name, i), true
		}
		// out of int64 range, keep it as a real
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return KeywordValue{}, false
		}
		return withRaw(RealValue(name, f), value), true
	case reReal.MatchString(value):
		f, err := strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(value), 64)
		if err != nil {
			return KeywordValue{}, false
		}
		return withRaw(RealValue(name, f), value), true
	}

	literal := value
	quoted := strings.HasPrefix(value, "'")
	if quoted {
		literal = unquoteString(value)
	}
	if t, ok := parseDate(strings.TrimSpace(literal)); ok {
		return DateValue(name, t, value), true
	}
	if quoted {
		return withRaw(StringValue(name, literal), value), true
	}
	return KeywordValue{}, false
}

func withRaw(v KeywordValue, raw string) KeywordValue {
	v.Raw = raw
	return v
}

func parseDate(s string) (time.Time, bool) {
	if !reDate.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func unquoteString(v string) string {
	inner := v[1 : len(v)-1]
	return strings.TrimRight(strings.ReplaceAll(inner, "''", "'"), " ")
}

func quoteString(s string) string {
	q := "'" + strings.ReplaceAll(s, "'", "''")
	// fixed-format strings are at least 8 characters between the quotes
	if len(s) < 8 {
		q += strings.Repeat(" ", 8-len(s))
	}
	return q + "'"
}
