package constant

// Role is the closed set of account roles. Authorization checks take an
// explicit set of allowed roles rather than comparing open strings.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string onto the closed enumeration,
// falling back to RoleUser for anything unrecognized.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

const (
	// DefaultMaxDevicesPerUser bounds live refresh sessions per account.
	DefaultMaxDevicesPerUser = 2

	// RefreshTokenBytes is the entropy of an opaque refresh token.
	RefreshTokenBytes = 32

	// ActionTokenBytes is the entropy of verification and reset tokens.
	ActionTokenBytes = 32
)
