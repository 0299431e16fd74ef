package datum

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// UnicodeMode selects how invalid UTF-8 in string values is handled.
type UnicodeMode int

const (
	UnicodeStrict UnicodeMode = iota
	UnicodeReplace
	UnicodeIgnore
)

func (m UnicodeMode) String() string {
	switch m {
	case UnicodeStrict:
		return "strict"
	case UnicodeReplace:
		return "replace"
	case UnicodeIgnore:
		return "ignore"
	}
	return fmt.Sprintf("UnicodeMode(%d)", int(m))
}

func ParseUnicodeMode(s string) (UnicodeMode, error) {
	switch s {
	case "strict", "":
		return UnicodeStrict, nil
	case "replace":
		return UnicodeReplace, nil
	case "ignore":
		return UnicodeIgnore, nil
	}
	return 0, fmt.Errorf("unknown unicode error mode %q (must be strict, replace, or ignore)", s)
}

// Set and String make UnicodeMode a flag.Value.
func (m *UnicodeMode) Set(s string) error {
	mode, err := ParseUnicodeMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// UnmarshalText lets a config file name the mode.
func (m *UnicodeMode) UnmarshalText(b []byte) error {
	return m.Set(string(b))
}

func (m UnicodeMode) sanitize(s string) (string, bool) {
	if utf8.ValidString(s) {
		return s, true
	}
	switch m {
	case UnicodeReplace:
		return strings.ToValidUTF8(s, "\uFFFD"), true
	case UnicodeIgnore:
		return strings.ToValidUTF8(s, ""), true
	}
	return "", false
}

type Options struct {
	// ReturnRecordName wraps values of union branches that are records or
	// named type references in a zavro.NamedValue.  It applies only where
	// no reader schema is in effect.
	ReturnRecordName bool
	Unicode          UnicodeMode
	// Cache, if non-nil, memoizes schema resolution across calls.
	Cache *Cache
}
