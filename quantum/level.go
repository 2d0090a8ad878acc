package quantum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SecurityLevel grades key material and proofs.
type SecurityLevel int

const (
	LevelStandard SecurityLevel = iota
	LevelMilitary
	LevelTopSecret
)

// String returns the canonical level name.
func (l SecurityLevel) String() string {
	switch l {
	case LevelStandard:
		return "standard"
	case LevelMilitary:
		return "military"
	case LevelTopSecret:
		return "top-secret"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// MarshalJSON encodes the level as its name.
func (l SecurityLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level name.
func (l *SecurityLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSecurityLevel(name)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseSecurityLevel maps a level name to its SecurityLevel.
func ParseSecurityLevel(name string) (SecurityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard":
		return LevelStandard, nil
	case "military":
		return LevelMilitary, nil
	case "top-secret", "top_secret", "topsecret":
		return LevelTopSecret, nil
	default:
		return 0, fmt.Errorf("quantum: unknown security level %q", name)
	}
}
