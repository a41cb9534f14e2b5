// Package models defines client-side data models.
package models

// User is the closed client-side account record derived from a verified
// credential. Unexpected fields on the wire are dropped during decoding;
// nothing is passed through untyped.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsPremium bool   `json:"isPremium,omitempty"`
}
