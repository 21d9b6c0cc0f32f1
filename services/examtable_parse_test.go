package services

import (
	"errors"
	"testing"
)

func TestRowFromCells(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  TableRow
		ok    bool
	}{
		{
			name:  "basic row",
			cells: []string{"Mathematics", "Quadratic Equations", "12"},
			want:  TableRow{Subject: "Mathematics", Topic: "Quadratic Equations", Count: 12},
			ok:    true,
		},
		{
			name:  "extra middle cells join into the topic",
			cells: []string{"Physics", "Motion", "in a Plane", "8"},
			want:  TableRow{Subject: "Physics", Topic: "Motion in a Plane", Count: 8},
			ok:    true,
		},
		{
			name:  "untrimmed cells",
			cells: []string{" Chemistry ", " Acids and Bases ", " 5 "},
			want:  TableRow{Subject: "Chemistry", Topic: "Acids and Bases", Count: 5},
			ok:    true,
		},
		{name: "header row", cells: []string{"Subject", "Topic", "Questions"}, ok: false},
		{name: "negative count", cells: []string{"Math", "Algebra", "-1"}, ok: false},
		{name: "too few cells", cells: []string{"Math", "7"}, ok: false},
		{name: "empty subject", cells: []string{"", "Algebra", "7"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rowFromCells(tt.cells)
			if ok != tt.ok {
				t.Fatalf("rowFromCells(%v) ok = %v, want %v", tt.cells, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("rowFromCells(%v) = %+v, want %+v", tt.cells, got, tt.want)
			}
		})
	}
}

func TestRowFromLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want TableRow
		ok   bool
	}{
		{
			name: "pipe separated",
			line: "Mathematics | Trigonometry | 14",
			want: TableRow{Subject: "Mathematics", Topic: "Trigonometry", Count: 14},
			ok:   true,
		},
		{
			name: "tab separated",
			line: "Physics\tWork and Energy\t9",
			want: TableRow{Subject: "Physics", Topic: "Work and Energy", Count: 9},
			ok:   true,
		},
		{
			name: "whitespace fallback keeps multi-word topic",
			line: "Biology Cell Division and Growth 6",
			want: TableRow{Subject: "Biology", Topic: "Cell Division and Growth", Count: 6},
			ok:   true,
		},
		{name: "empty line", line: "   ", ok: false},
		{name: "no trailing count", line: "Math | Algebra | many", ok: false},
		{name: "too short for fallback", line: "Algebra 7", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rowFromLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("rowFromLine(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("rowFromLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseHTMLTable(t *testing.T) {
	doc := []byte(`<html><body>
		<h1>2026 Question Distribution</h1>
		<table>
			<tr><th>Subject</th><th>Topic</th><th>Questions</th></tr>
			<tr><td>Mathematics</td><td>Limits and <b>Continuity</b></td><td>10</td></tr>
			<tr><td>Physics</td><td>Optics</td><td>7</td></tr>
			<tr><td colspan="3">totals below</td></tr>
		</table>
	</body></html>`)

	rows, err := parseHTMLTable(doc)
	if err != nil {
		t.Fatalf("parseHTMLTable failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(rows), rows)
	}
	if rows[0] != (TableRow{Subject: "Mathematics", Topic: "Limits and Continuity", Count: 10}) {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1] != (TableRow{Subject: "Physics", Topic: "Optics", Count: 7}) {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestParseHTMLTableNoRows(t *testing.T) {
	_, err := parseHTMLTable([]byte("<html><body><p>nothing tabular</p></body></html>"))
	if !errors.Is(err, ErrNoTableRows) {
		t.Errorf("error = %v, want ErrNoTableRows", err)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := normalizeName("  Quadratic Equations "); got != "quadratic equations" {
		t.Errorf("normalizeName = %q", got)
	}
	if topicKey(3, " Algebra ") != "3:algebra" {
		t.Errorf("topicKey = %q", topicKey(3, " Algebra "))
	}
}
