package datastore

import (
	"regexp"
	"strings"
)

var (
	unsafeFilenameCharsRegex = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
	multipleUnderscoresRegex = regexp.MustCompile(`_+`)
)

// SanitizePathFilename turns a logical path into a safe flat filename for
// artifact files: "/usr/lib/libfoo.so.1" becomes "usr_lib_libfoo.so.1".
func SanitizePathFilename(input string) string {
	name := unsafeFilenameCharsRegex.ReplaceAllString(input, "_")
	name = multipleUnderscoresRegex.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "sanitized_empty_input"
	}
	return name
}

// StringPtrOrNil converts string to pointer, or nil if string is empty
func StringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Int64PtrOrNilZero converts int64 to pointer, or nil if value is 0
func Int64PtrOrNilZero(i int64) *int64 {
	if i == 0 {
		return nil
	}
	return &i
}

// Float64Ptr returns a pointer to the given value.
func Float64Ptr(f float64) *float64 {
	return &f
}
