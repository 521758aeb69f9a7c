package services

import (
	"regexp"
	"strings"
)

var rutPattern = regexp.MustCompile(`^\d{7,8}-[0-9K]$`)

// NormalizeRUT strips dots and spaces and upper-cases the check digit.
func NormalizeRUT(rut string) string {
	rut = strings.TrimSpace(rut)
	rut = strings.ReplaceAll(rut, ".", "")
	rut = strings.ReplaceAll(rut, " ", "")
	return strings.ToUpper(rut)
}

// ValidRUT reports whether rut, already normalised, has the 12345678-9 shape.
func ValidRUT(rut string) bool {
	return rutPattern.MatchString(rut)
}
