package domain

// ID is the canonical record identifier. The remote API has used both numeric
// and string identifiers under "id" and "_id"; the wire layer normalises all of
// them into this type.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id == "" }
