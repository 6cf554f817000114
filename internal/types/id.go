// README: Opaque identifiers shared across modules.
package types

import "github.com/google/uuid"

// ID is an opaque identifier. Callers must not assume any structure beyond uniqueness.
type ID string

// NewID returns a random (v4) identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID accepts only ids produced by NewID.
func ParseID(s string) (ID, bool) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return ID(u.String()), true
}

func (id ID) String() string {
	return string(id)
}
