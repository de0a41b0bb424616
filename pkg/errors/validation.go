package errors

import (
	"strings"
	"unicode"
)

// MaxPackageNameLen bounds package names accepted by ValidatePackageName.
const MaxPackageNameLen = 256

// ValidatePackageName rejects names that cannot safely become a checkout
// directory under the install root or a registry path segment: empty or
// overlong names, whitespace and control characters, path separators,
// parent references and names starting with a dot.
func ValidatePackageName(name string) error {
	invalid := func(reason string) error {
		return New(ErrCodeInvalidPackage, "invalid package name %q: %s", name, reason)
	}

	switch {
	case name == "":
		return New(ErrCodeInvalidPackage, "package name is empty")
	case len(name) > MaxPackageNameLen:
		return invalid("longer than 256 bytes")
	case strings.HasPrefix(name, "."):
		return invalid("starts with a dot")
	case strings.ContainsAny(name, `/\`):
		return invalid("contains a path separator")
	case strings.Contains(name, ".."):
		return invalid("contains a parent reference")
	case strings.IndexFunc(name, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0:
		return invalid("contains whitespace or control characters")
	}
	return nil
}
