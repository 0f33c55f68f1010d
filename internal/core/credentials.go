package core

// Credentials is the token set a controller pushes to the device during
// discovery. It is opaque to everything except the session.
type Credentials struct {
	Username  string
	AuthType  string
	Blob      []byte
	ClientKey string
}

// Valid reports whether the credentials carry the fields a session needs.
func (c Credentials) Valid() bool {
	return c.Username != "" && len(c.Blob) > 0
}
