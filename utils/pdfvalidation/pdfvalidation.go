// Package pdfvalidation checks uploaded PDFs before they are parsed,
// rejecting oversized, malformed or truncated documents early.
package pdfvalidation

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFLimits bounds what an upload may contain.
type PDFLimits struct {
	MaxFileSizeMB    int
	MaxPages         int
	DocumentTypeName string // used in error messages
}

// ExamTableLimits fits the official topic distribution documents, which
// are a handful of pages at most.
var ExamTableLimits = PDFLimits{
	MaxFileSizeMB:    20,
	MaxPages:         30,
	DocumentTypeName: "exam table",
}

// ValidationResult reports the outcome of a validation pass. Error is
// set for rejections the uploader can fix; hard parse failures are
// returned as a Go error instead.
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
}

func (r *ValidationResult) reject(format string, args ...interface{}) (*ValidationResult, error) {
	r.Error = fmt.Sprintf(format, args...)
	return r, nil
}

// ValidatePDFBytes checks raw PDF content against the given limits.
func ValidatePDFBytes(content []byte, limits PDFLimits) (*ValidationResult, error) {
	result := &ValidationResult{FileSize: int64(len(content))}

	if result.FileSize > int64(limits.MaxFileSizeMB)*1024*1024 {
		return result.reject("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
	}
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return result.reject("Invalid PDF file: missing PDF header")
	}

	pageCount, err := pageCount(content)
	if err != nil {
		return result.reject("Failed to read PDF: %v", err)
	}
	result.PageCount = pageCount

	if pageCount == 0 {
		return result.reject("PDF has no pages")
	}
	if pageCount > limits.MaxPages {
		return result.reject("PDF has %d pages, which exceeds the maximum of %d pages for %s",
			pageCount, limits.MaxPages, limits.DocumentTypeName)
	}

	result.Valid = true
	return result, nil
}

// stripTrailingGarbage cuts anything appended after the final %%EOF
// marker. Some scanners and download tools pad PDFs with junk bytes
// that the parser chokes on.
func stripTrailingGarbage(content []byte) []byte {
	lastEOF := bytes.LastIndex(content, []byte("%%EOF"))
	if lastEOF == -1 {
		return content
	}

	end := lastEOF + len("%%EOF")
	for end < len(content) && (content[end] == '\n' || content[end] == '\r') {
		end++
	}
	return content[:end]
}

func pageCount(content []byte) (int, error) {
	content = stripTrailingGarbage(content)

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return reader.NumPage(), nil
}
