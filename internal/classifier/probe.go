package classifier

import (
	"strings"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/rs/zerolog"
)

// probeHeadSize is how many leading bytes the prober inspects.
const probeHeadSize = 512

// signatureSize is how many leading bytes feed the byte-signature table.
const signatureSize = 4

// ContentProber supplies the classifier's content fallbacks: a leading-byte
// reader for the signature table and a free-text type description for the
// term tables. Both are boundary wrappers; classification must tolerate
// either call failing.
type ContentProber interface {
	// LeadingBytes returns up to n leading bytes of the file.
	LeadingBytes(physicalPath string, n int) ([]byte, error)
	// Describe returns a human-readable type description of the file.
	Describe(physicalPath string) (string, error)
}

// FileProber is the built-in ContentProber. It reads file heads directly
// and synthesizes the description a file-type-sniffing utility would give.
type FileProber struct {
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewFileProber creates a FileProber.
func NewFileProber(logger zerolog.Logger) *FileProber {
	componentLogger := logger.With().Str("component", "FileProber").Logger()
	return &FileProber{
		fileManager: common.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

// LeadingBytes returns up to n leading bytes of the file.
func (fp *FileProber) LeadingBytes(physicalPath string, n int) ([]byte, error) {
	return fp.fileManager.ReadFirstBytes(physicalPath, n)
}

// Describe synthesizes a type description from the file head.
func (fp *FileProber) Describe(physicalPath string) (string, error) {
	head, err := fp.fileManager.ReadFirstBytes(physicalPath, probeHeadSize)
	if err != nil {
		return "", common.WrapError(err, "failed to probe file content")
	}
	return describeHead(head), nil
}

// describeHead maps a file head to a coarse description, mirroring the
// vocabulary of file(1) closely enough for the term tables.
func describeHead(head []byte) string {
	if len(head) == 0 {
		return "empty"
	}

	switch {
	case len(head) >= 4 && head[0] == 0x7f && head[1] == 'E' && head[2] == 'L' && head[3] == 'F':
		return describeELF(head)
	case len(head) >= 2 && head[0] == '#' && head[1] == '!':
		return "script text executable"
	case len(head) >= 2 && head[0] == 0x1f && head[1] == 0x8b:
		return "gzip compressed data"
	case len(head) >= 3 && string(head[:3]) == "BZh":
		return "bzip2 compressed data"
	case len(head) >= 7 && string(head[:7]) == "!<arch>":
		return "current ar archive"
	}

	if IsASCIIText(head) {
		return "ASCII text"
	}
	return "data"
}

// describeELF distinguishes shared objects from plain executables by ELF
// type field when enough bytes are present.
func describeELF(head []byte) string {
	// e_type lives at offset 16, little- or big-endian per EI_DATA at 5
	if len(head) > 17 {
		var eType uint16
		if head[5] == 2 { // big-endian
			eType = uint16(head[16])<<8 | uint16(head[17])
		} else {
			eType = uint16(head[17])<<8 | uint16(head[16])
		}
		switch eType {
		case 3:
			return "ELF shared object"
		case 1:
			return "ELF relocatable"
		}
	}
	return "ELF executable"
}

// IsASCIIText reports whether a file head looks like printable ASCII. Used
// for the shared-object post-check: a .so that is ASCII is a linker script,
// not an ELF object.
func IsASCIIText(head []byte) bool {
	if len(head) == 0 {
		return false
	}
	for _, b := range head {
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}

// LooksLikeLinkerScript scans ASCII content for GNU ld script directives.
func LooksLikeLinkerScript(head []byte) bool {
	content := string(head)
	for _, directive := range []string{"GROUP", "INPUT", "OUTPUT_FORMAT", "GNU ld script"} {
		if strings.Contains(content, directive) {
			return true
		}
	}
	return false
}
