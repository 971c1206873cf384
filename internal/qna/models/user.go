package models

// User mirrors the identity provider's view of a person. Only the stable id
// and the display username are stored; credentials never are.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
