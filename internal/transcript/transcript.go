// Package transcript pulls completed course codes out of PDF and plain-text transcripts.
package transcript

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxSize is the largest transcript accepted, in bytes.
const MaxSize = 5 << 20

// ErrUnsupportedFormat is returned for uploads that are neither a readable PDF
// nor plain text.
var ErrUnsupportedFormat = errors.New("unsupported transcript format: expected a PDF or plain text file")

// ErrTooLarge is returned when a transcript exceeds MaxSize.
var ErrTooLarge = fmt.Errorf("transcript exceeds %d bytes", MaxSize)

// courseCodePattern matches "CE 201", "CS-101", "MATH2410" and "ECE 3410L".
var courseCodePattern = regexp.MustCompile(`\b([A-Z]{2,4})[ \t]?-?[ \t]?(\d{3,4}[A-Z]?)\b`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Words that look like a department prefix next to a number but never are one.
var notDepartments = map[string]bool{
	"FALL": true, "SPR": true, "SUM": true, "WIN": true,
	"TERM": true, "YEAR": true, "PAGE": true, "GPA": true,
	"ID": true, "NO": true, "TOTAL": true, "AND": true,
}

var pdfMagic = []byte("%PDF-")

// Options narrow the extraction.
type Options struct {
	// Department keeps only codes of this department when set (case-insensitive).
	Department string
}

// CleanText normalizes line endings and collapses runs of whitespace within each
// line. Blank lines are dropped.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// Extract returns the course codes in text normalized to "DEPT NUM", in order of
// first appearance and without duplicates. The result is never nil.
func Extract(text string, opts Options) []string {
	dept := strings.ToUpper(strings.TrimSpace(opts.Department))

	seen := make(map[string]bool)
	codes := make([]string, 0)
	for _, line := range strings.Split(CleanText(text), "\n") {
		for _, m := range courseCodePattern.FindAllStringSubmatch(line, -1) {
			prefix, number := m[1], m[2]
			if notDepartments[prefix] {
				continue
			}
			if dept != "" && prefix != dept {
				continue
			}
			code := prefix + " " + number
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	return codes
}

// IsPDF reports whether data starts with the PDF signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Decode returns the text of a transcript. PDFs have their text layer
// extracted; anything else must be plain UTF-8 text.
func Decode(data []byte) (string, error) {
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	if IsPDF(data) {
		return pdfText(data)
	}
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", ErrUnsupportedFormat
	}
	return string(data), nil
}

// pdfText concatenates the plain text of every page, one page per block.
func pdfText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: unreadable PDF: %v", ErrUnsupportedFormat, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: unreadable PDF: %v", ErrUnsupportedFormat, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: failed to read PDF page %d: %v", ErrUnsupportedFormat, i, err)
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ExtractReader reads a transcript from r and extracts its course codes.
func ExtractReader(r io.Reader, opts Options) ([]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	text, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Extract(text, opts), nil
}

// ExtractFile reads the transcript at path and extracts its course codes.
func ExtractFile(path string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ExtractReader(f, opts)
}
