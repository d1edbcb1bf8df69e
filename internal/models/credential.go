package models

// Credential represents one operator record in the credential store.
// Usernames are compared case-insensitively, passwords byte-for-byte.
type Credential struct {
	// Operator login name
	Username string `json:"Username" db:"username"`

	// Clear-text password. The store offers no hashing; this is a
	// documented weakness of the credential file format.
	Password string `json:"Password" db:"password"`
}
