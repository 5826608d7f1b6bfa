package models

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleCreator  = "creator"
)

// User is the authenticated caller as carried in the session token.
type User struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Token string `json:"-"`
}
