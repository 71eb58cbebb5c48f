package models

// Person represents a participant in a shared expense event.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string

	// Name is the display name. Not unique; never used as a key.
	Name string

	// CreatedAt is the Unix timestamp when the person was registered.
	CreatedAt int64
}
