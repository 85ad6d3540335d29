// Package validation checks sequence identifiers and input files before
// they reach the title engine.
package validation

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Limits for user-supplied values.
const (
	// MaxIdentifierLength is the longest identifier accepted for submission.
	MaxIdentifierLength = 50
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// ReservedIdentifierChars may never appear in an identifier: '[' and ']'
// delimit title modifiers and '>' starts a FASTA header.
const ReservedIdentifierChars = "[]>"

// Common validation errors.
var (
	ErrEmptyIdentifier   = errors.New("identifier cannot be empty")
	ErrIdentifierTooLong = errors.New("identifier too long")
	ErrReservedCharacter = errors.New("reserved character in identifier")
	ErrWhitespace        = errors.New("whitespace in identifier")
	ErrInvalidCharacter  = errors.New("invalid character")
	ErrEmptyPath         = errors.New("path cannot be empty")
	ErrPathTooLong       = errors.New("path too long")
)

// ValidateIdentifier checks a sequence identifier. Identifiers end at the
// first whitespace in FASTA, so whitespace is rejected along with the
// reserved characters and control characters.
func ValidateIdentifier(id string) error {
	if id == "" {
		return ErrEmptyIdentifier
	}

	if len(id) > MaxIdentifierLength {
		return fmt.Errorf("%w: %d > %d bytes", ErrIdentifierTooLong, len(id), MaxIdentifierLength)
	}

	if i := strings.IndexAny(id, ReservedIdentifierChars); i >= 0 {
		return fmt.Errorf("%w: %q", ErrReservedCharacter, id[i])
	}

	for _, r := range id {
		if unicode.IsSpace(r) {
			return ErrWhitespace
		}
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidatePath rejects empty or overlong paths and paths containing control
// characters, NUL included. It does not touch the filesystem.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return ErrEmptyPath
	case len(path) > MaxPathLength:
		return ErrPathTooLong
	}
	if i := strings.IndexFunc(path, unicode.IsControl); i >= 0 {
		return fmt.Errorf("%w: control character %q in path", ErrInvalidCharacter, path[i])
	}
	return nil
}

// FileType represents a detected input file type.
type FileType string

const (
	FileTypeXZ      FileType = "xz"
	FileTypeGzip    FileType = "gzip"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeXML     FileType = "xml"
	FileTypeText    FileType = "text"
	FileTypeUnknown FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeSQLite, []byte("SQLite format 3\x00")},
}

// sniffSize is how much of a file DetectFileType needs.
const sniffSize = 512

// DetectFileType classifies buf, the first bytes of a file, by its magic
// bytes. Text that starts with an XML declaration or element is
// FileTypeXML.
func DetectFileType(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	if !isLikelyText(buf) {
		return FileTypeUnknown
	}
	trimmed := bytes.TrimLeft(buf, " \t\r\n\ufeff")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return FileTypeXML
	}
	return FileTypeText
}

// SniffFileType detects the type of r without consuming it: the returned
// reader yields the full stream, header included.
func SniffFileType(r io.Reader) (FileType, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return FileTypeUnknown, br, fmt.Errorf("failed to read file header: %w", err)
	}
	return DetectFileType(buf), br, nil
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Null bytes are a strong indicator of binary content
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 continuation and start bytes are neutral
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
