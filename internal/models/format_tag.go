package models

// FormatTag is the symbolic format category assigned to every file path.
// Classification always resolves to exactly one tag; unknown paths fall
// back to FormatOther (or FormatText when unknown-as-text mode is enabled).
type FormatTag string

const (
	// FormatDir indicates a directory entry.
	FormatDir FormatTag = "dir"
	// FormatSymlink indicates a symbolic link.
	FormatSymlink FormatTag = "symlink"
	// FormatHeader indicates a C/C++ header or extensionless include file.
	FormatHeader FormatTag = "header"
	// FormatSharedObject indicates an ELF shared object.
	FormatSharedObject FormatTag = "shared_object"
	// FormatLinkerScript indicates a .so file that is actually an ASCII GNU ld script.
	FormatLinkerScript FormatTag = "linker_script"
	// FormatStaticLib indicates a static library archive (.a).
	FormatStaticLib FormatTag = "static_lib"
	// FormatArchive indicates a tarball or other multi-file archive.
	FormatArchive FormatTag = "archive"
	// FormatCompressed indicates a single compressed file.
	FormatCompressed FormatTag = "compressed"
	// FormatText indicates plain text.
	FormatText FormatTag = "text"
	// FormatLicense indicates a license/copyright file.
	FormatLicense FormatTag = "license"
	// FormatChangeLog indicates a changelog file.
	FormatChangeLog FormatTag = "changelog"
	// FormatManpage indicates a manual page.
	FormatManpage FormatTag = "manpage"
	// FormatInfoDoc indicates a GNU info document.
	FormatInfoDoc FormatTag = "infodoc"
	// FormatScm indicates source-control metadata (.git, .svn, CVS trees).
	FormatScm FormatTag = "scm"
	// FormatExecutable indicates an executable binary or script.
	FormatExecutable FormatTag = "executable"
	// FormatData indicates opaque binary data.
	FormatData FormatTag = "data"
	// FormatOther is the final fallback for unclassifiable paths.
	FormatOther FormatTag = "other"
)

// String returns the tag's string form.
func (ft FormatTag) String() string {
	return string(ft)
}
