package models

// UserRole represents the available roles for access control.
type UserRole string

const (
	RoleDirector UserRole = "Director"
	RoleManager  UserRole = "Manager"
)

// StaffAccount is a secondary operator persisted under crm_users.
// Only a bcrypt hash of the four-digit access code is stored.
type StaffAccount struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	CodeHash string   `json:"codeHash"`
	Role     UserRole `json:"role"`
}

func (a StaffAccount) GetID() string { return a.ID }

// Info strips the credential from the account.
func (a StaffAccount) Info() AccountInfo {
	return AccountInfo{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// AccountInfo is the credential-free view of an account, used in responses and sessions.
type AccountInfo struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}
