package encryption

import (
	"fmt"
	"strings"
)

// Action selects the direction of a file operation.
type Action byte

const (
	// ActionEncrypt turns plaintext into an authenticated container.
	ActionEncrypt Action = iota
	// ActionDecrypt recovers plaintext from a container.
	ActionDecrypt
)

func (a Action) String() string {
	switch a {
	case ActionEncrypt:
		return "encrypt"
	case ActionDecrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("Action(%d)", byte(a))
	}
}

// ParseAction validates a raw action token. It accepts "e"/"encrypt" and
// "d"/"decrypt" in any case; everything else fails with ErrInvalidAction so
// an interactive shell can re-prompt without the core ever reading input.
func ParseAction(raw string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "e", "encrypt":
		return ActionEncrypt, nil
	case "d", "decrypt":
		return ActionDecrypt, nil
	default:
		return 0, fmt.Errorf("%w: %q (want \"encrypt\"/\"e\" or \"decrypt\"/\"d\")", ErrInvalidAction, raw)
	}
}
