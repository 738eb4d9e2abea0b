package render

import "strings"

// Document type labels shown in the canonical header.
const (
	TypeCode           = "КОДЕКС РОССИЙСКОЙ ФЕДЕРАЦИИ"
	TypeConstitutional = "ФЕДЕРАЛЬНЫЙ КОНСТИТУЦИОННЫЙ ЗАКОН"
	TypeLaw            = "ФЕДЕРАЛЬНЫЙ ЗАКОН"
)

// DocumentType derives the header label from a document title.
func DocumentType(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "кодекс"):
		return TypeCode
	case strings.Contains(lower, "конституционный"):
		return TypeConstitutional
	}
	return TypeLaw
}
