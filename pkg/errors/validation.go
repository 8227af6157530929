package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a registry package name taken from a URL path.
//
// The rules are conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
//
// Registry-specific validation is layered on top by the functions below.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidURL, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidURL, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidURL, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// pythonPackageNameRegex matches valid Python package names (PEP 508).
var pythonPackageNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidatePythonPackageName validates a PyPI project name per PEP 508.
func ValidatePythonPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if !pythonPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidURL, "invalid Python package name: %q", name)
	}
	return nil
}

// cratesPackageNameRegex matches valid crates.io package names.
var cratesPackageNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCratesPackageName validates a crates.io package name.
func ValidateCratesPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if !cratesPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidURL, "invalid crates.io package name: %q", name)
	}
	return nil
}

// hexPackageNameRegex matches valid hex.pm package names.
var hexPackageNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateHexPackageName validates a hex.pm package name.
func ValidateHexPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if !hexPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidURL, "invalid hex package name: %q", name)
	}
	return nil
}

// attrNameRegex matches a Nix attribute name usable without quoting.
var attrNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'-]*$`)

// ValidateAttrName validates the name of an extra fetcher argument or overwrite.
// Names end up verbatim on the left-hand side of a Nix binding.
func ValidateAttrName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "argument name cannot be empty")
	}
	if !attrNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid argument name: %q", name)
	}
	return nil
}

// ValidateURL validates the URL argument before parsing.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidURL, "URL contains whitespace or control characters: %q", rawURL)
		}
	}
	return nil
}
