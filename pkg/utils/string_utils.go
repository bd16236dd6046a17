package utils

// NewNullString is a helper for string pointers, returning nil if string is empty.
// Useful for optional fields that should be omitted from stored JSON when not provided.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
