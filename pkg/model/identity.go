package model

// Identity is a resolved requester: the outcome of the authentication gate.
// It is passed explicitly into every operation rather than held as ambient
// state.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
