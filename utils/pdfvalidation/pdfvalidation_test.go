package pdfvalidation

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidateRejectsOversizedContent(t *testing.T) {
	limits := PDFLimits{MaxFileSizeMB: 1, MaxPages: 10, DocumentTypeName: "exam table"}
	content := append([]byte("%PDF-1.4"), bytes.Repeat([]byte{0}, 2*1024*1024)...)

	result, err := ValidatePDFBytes(content, limits)
	if err != nil {
		t.Fatalf("ValidatePDFBytes failed: %v", err)
	}
	if result.Valid {
		t.Error("oversized content passed validation")
	}
	if !strings.Contains(result.Error, "1MB") {
		t.Errorf("error = %q, want size limit mention", result.Error)
	}
}

func TestValidateRejectsMissingHeader(t *testing.T) {
	result, err := ValidatePDFBytes([]byte("not a pdf"), ExamTableLimits)
	if err != nil {
		t.Fatalf("ValidatePDFBytes failed: %v", err)
	}
	if result.Valid {
		t.Error("non-PDF content passed validation")
	}
	if !strings.Contains(result.Error, "PDF header") {
		t.Errorf("error = %q, want header mention", result.Error)
	}
}

func TestStripTrailingGarbage(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "%PDF-1.4 body %%EOF", "%PDF-1.4 body %%EOF"},
		{"trailing newline kept", "%PDF-1.4 body %%EOF\n", "%PDF-1.4 body %%EOF\n"},
		{"junk removed", "%PDF-1.4 body %%EOF\njunkjunk", "%PDF-1.4 body %%EOF\n"},
		{"no marker", "%PDF-1.4 body", "%PDF-1.4 body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stripTrailingGarbage([]byte(tc.in))
			if string(got) != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
