package report

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Severity ranks a message. It is the only enumeration encoded as a number:
// 0=Error, 1=Warning, 2=Information, 3=Hint. Lower values are more severe.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityError, SeverityWarning, SeverityInformation, SeverityHint}

var severityNames = [...]string{"Error", "Warning", "Information", "Hint"}

func (s Severity) valid() bool { return int(s) < len(severityNames) }

func (s Severity) String() string {
	if !s.valid() {
		return "Severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// MoreSevereThan reports whether s ranks above o.
func (s Severity) MoreSevereThan(o Severity) bool { return s < o }

// AtLeast reports whether s is as severe as threshold or more.
func (s Severity) AtLeast(threshold Severity) bool { return s <= threshold }

// ParseSeverity resolves a human-readable severity name, case-insensitively.
// "info" is accepted as shorthand for Information.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "information", "info":
		return SeverityInformation, nil
	case "hint":
		return SeverityHint, nil
	}
	return 0, &EnumError{Enum: "severity", Value: name}
}

// severityFromCode maps a wire discriminant such as "2" to its Severity.
func severityFromCode(code string) (Severity, error) {
	n, err := strconv.ParseUint(code, 10, 8)
	if err != nil || !Severity(n).valid() {
		return 0, &EnumError{Enum: "severity", Value: code}
	}
	return Severity(n), nil
}

func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.valid() {
		return nil, &EnumError{Enum: "severity", Value: strconv.Itoa(int(s))}
	}
	return strconv.AppendUint(nil, uint64(s), 10), nil
}

// UnmarshalJSON accepts the canonical bare integer and, for older payloads,
// the same numeral wrapped in a string ("1").
func (s *Severity) UnmarshalJSON(data []byte) error {
	token := strings.TrimSpace(string(data))
	if token == "" {
		return &json.UnmarshalTypeError{Value: "empty", Type: reflect.TypeOf(*s)}
	}
	switch token[0] {
	case '"':
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			return err
		}
		token = quoted
	case 't', 'f':
		return &json.UnmarshalTypeError{Value: "bool", Type: reflect.TypeOf(*s)}
	case 'n':
		return nil
	case '[':
		return &json.UnmarshalTypeError{Value: "array", Type: reflect.TypeOf(*s)}
	case '{':
		return &json.UnmarshalTypeError{Value: "object", Type: reflect.TypeOf(*s)}
	}
	sev, err := severityFromCode(token)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
