package enums

import "fmt"

// MessagePayloadKind distinguishes outbound message shapes.
type MessagePayloadKind string

const (
	MessagePayloadText   MessagePayloadKind = "text"
	MessagePayloadChoice MessagePayloadKind = "choice"
)

var validMessagePayloadKinds = []MessagePayloadKind{
	MessagePayloadText,
	MessagePayloadChoice,
}

// String implements fmt.Stringer.
func (m MessagePayloadKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MessagePayloadKind.
func (m MessagePayloadKind) IsValid() bool {
	for _, candidate := range validMessagePayloadKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessagePayloadKind converts raw input into a MessagePayloadKind.
func ParseMessagePayloadKind(value string) (MessagePayloadKind, error) {
	for _, candidate := range validMessagePayloadKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message payload kind %q", value)
}
