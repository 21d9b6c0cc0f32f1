package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/utils/pdfvalidation"
	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoTableRows      = errors.New("no topic rows found in document")
	ErrExamYearNotFound = errors.New("exam year not found")
)

// ExamTableService imports official topic question-count distribution
// documents. The documents come as HTML tables or PDFs with one row per
// topic: subject name, topic name, question count.
type ExamTableService struct {
	db *gorm.DB
}

// NewExamTableService creates a new exam table service
func NewExamTableService(db *gorm.DB) *ExamTableService {
	return &ExamTableService{db: db}
}

// TableRow is one parsed row of a distribution document
type TableRow struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Count   int    `json:"count"`
}

// ImportResult reports what an import run did
type ImportResult struct {
	RowsParsed      int      `json:"rows_parsed"`
	CountsImported  int      `json:"counts_imported"`
	TopicsCreated   int      `json:"topics_created"`
	SkippedSubjects []string `json:"skipped_subjects,omitempty"`
}

// ImportHTML parses an HTML table document and upserts its counts for the
// given exam year.
func (e *ExamTableService) ImportHTML(ctx context.Context, examYearID uint, content []byte) (*ImportResult, error) {
	rows, err := parseHTMLTable(content)
	if err != nil {
		return nil, err
	}
	return e.applyRows(ctx, examYearID, rows)
}

// ImportPDF validates, extracts and imports a PDF distribution document
func (e *ExamTableService) ImportPDF(ctx context.Context, examYearID uint, content []byte) (*ImportResult, error) {
	validation, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.ExamTableLimits)
	if err != nil {
		return nil, fmt.Errorf("pdf validation failed: %w", err)
	}
	if !validation.Valid {
		return nil, fmt.Errorf("pdf rejected: %s", validation.Error)
	}

	rows, err := parsePDFTable(content)
	if err != nil {
		return nil, err
	}
	return e.applyRows(ctx, examYearID, rows)
}

// applyRows resolves parsed rows against the subject/topic catalog and
// upserts TopicQuestionCount rows on the (exam year, topic) unique index.
// Topics missing from the catalog are created under their subject; rows
// naming an unknown subject are skipped, not invented.
func (e *ExamTableService) applyRows(ctx context.Context, examYearID uint, rows []TableRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrNoTableRows
	}

	var examYear model.ExamYear
	if err := e.db.WithContext(ctx).First(&examYear, examYearID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamYearNotFound
		}
		return nil, err
	}

	var subjects []model.Subject
	if err := e.db.WithContext(ctx).Preload("Topics").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to load subject catalog: %w", err)
	}

	subjectsByName := make(map[string]*model.Subject, len(subjects))
	topicIDs := make(map[string]uint)
	for i := range subjects {
		subject := &subjects[i]
		subjectsByName[normalizeName(subject.Name)] = subject
		for _, topic := range subject.Topics {
			topicIDs[topicKey(subject.ID, topic.Name)] = topic.ID
		}
	}

	result := &ImportResult{RowsParsed: len(rows)}
	skipped := make(map[string]bool)

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counts []model.TopicQuestionCount
		for _, row := range rows {
			subject, ok := subjectsByName[normalizeName(row.Subject)]
			if !ok {
				skipped[row.Subject] = true
				continue
			}

			topicID, ok := topicIDs[topicKey(subject.ID, row.Topic)]
			if !ok {
				topic := model.Topic{SubjectID: subject.ID, Name: row.Topic}
				if err := tx.Create(&topic).Error; err != nil {
					return fmt.Errorf("failed to create topic %q: %w", row.Topic, err)
				}
				topicID = topic.ID
				topicIDs[topicKey(subject.ID, row.Topic)] = topicID
				result.TopicsCreated++
			}

			counts = append(counts, model.TopicQuestionCount{
				ExamYearID:    examYearID,
				TopicID:       topicID,
				QuestionCount: row.Count,
			})
		}
		if len(counts) == 0 {
			return ErrNoTableRows
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "exam_year_id"}, {Name: "topic_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"question_count", "updated_at"}),
		}).Create(&counts).Error; err != nil {
			return fmt.Errorf("failed to upsert topic counts: %w", err)
		}
		result.CountsImported = len(counts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for name := range skipped {
		result.SkippedSubjects = append(result.SkippedSubjects, name)
	}
	if len(result.SkippedSubjects) > 0 {
		log.Printf("ExamTableService: skipped %d unknown subjects during import", len(result.SkippedSubjects))
	}
	return result, nil
}

// CountsForYear lists the imported counts for one exam year
func (e *ExamTableService) CountsForYear(ctx context.Context, examYearID uint) ([]model.TopicQuestionCount, error) {
	var counts []model.TopicQuestionCount
	err := e.db.WithContext(ctx).
		Preload("Topic").
		Preload("Topic.Subject").
		Where("exam_year_id = ?", examYearID).
		Find(&counts).Error
	return counts, err
}

// parseHTMLTable walks the document tree collecting <tr> rows with three
// usable cells. Header rows and rows without a numeric count are skipped.
func parseHTMLTable(content []byte) ([]TableRow, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var rows []TableRow
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := cellTexts(n)
			if row, ok := rowFromCells(cells); ok {
				rows = append(rows, row)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if len(rows) == 0 {
		return nil, ErrNoTableRows
	}
	return rows, nil
}

// cellTexts extracts the trimmed text content of each td/th under a row
func cellTexts(tr *html.Node) []string {
	var cells []string
	for cell := tr.FirstChild; cell != nil; cell = cell.NextSibling {
		if cell.Type != html.ElementNode || (cell.Data != "td" && cell.Data != "th") {
			continue
		}
		var text strings.Builder
		var collect func(*html.Node)
		collect = func(n *html.Node) {
			if n.Type == html.TextNode {
				text.WriteString(n.Data)
			}
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				collect(child)
			}
		}
		collect(cell)
		cells = append(cells, strings.TrimSpace(text.String()))
	}
	return cells
}

// parsePDFTable extracts plain text page by page and parses lines of the
// form "<subject> <topic...> <count>". Topic names may contain spaces, so
// the subject is matched as the first token group and the count as the
// trailing integer.
func parsePDFTable(content []byte) ([]TableRow, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var rows []TableRow
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("ExamTableService: page %d text extraction failed: %v", pageNum, err)
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			if row, ok := rowFromLine(line); ok {
				rows = append(rows, row)
			}
		}
	}

	if len(rows) == 0 {
		return nil, ErrNoTableRows
	}
	return rows, nil
}

// rowFromCells interprets a three-or-more cell row as subject, topic, count
func rowFromCells(cells []string) (TableRow, bool) {
	if len(cells) < 3 {
		return TableRow{}, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(cells[len(cells)-1]))
	if err != nil || count < 0 {
		return TableRow{}, false
	}
	subject := strings.TrimSpace(cells[0])
	topic := strings.TrimSpace(strings.Join(cells[1:len(cells)-1], " "))
	if subject == "" || topic == "" {
		return TableRow{}, false
	}
	return TableRow{Subject: subject, Topic: topic, Count: count}, true
}

// rowFromLine parses "subject | topic | count" or tab-separated PDF lines
func rowFromLine(line string) (TableRow, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return TableRow{}, false
	}

	var fields []string
	switch {
	case strings.Contains(line, "|"):
		fields = strings.Split(line, "|")
	case strings.Contains(line, "\t"):
		fields = strings.Split(line, "\t")
	default:
		// Fall back to whitespace: first token subject, last token count
		parts := strings.Fields(line)
		if len(parts) < 3 {
			return TableRow{}, false
		}
		fields = []string{parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1]}
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return rowFromCells(fields)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func topicKey(subjectID uint, topicName string) string {
	return fmt.Sprintf("%d:%s", subjectID, normalizeName(topicName))
}
