package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// FAQRecord is one structured question/answer pair from the FAQ dataset.
type FAQRecord struct {
	Question string
	Answer   string
	Category string
}

// Content renders the record the way it is embedded and stored.
func (r FAQRecord) Content() string {
	return fmt.Sprintf("Question: %s\nAnswer: %s", r.Question, r.Answer)
}

// ReadFAQCSV parses a semicolon-separated FAQ dataset with a
// question;answer;category header row. Rows with fewer than two fields or an
// empty question are dropped.
func ReadFAQCSV(r io.Reader) ([]FAQRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse faq csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Skip the header row if present.
	start := 0
	if strings.EqualFold(strings.TrimSpace(rows[0][0]), "question") {
		start = 1
	}

	var out []FAQRecord
	for _, row := range rows[start:] {
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		rec := FAQRecord{
			Question: strings.TrimSpace(row[0]),
			Answer:   strings.TrimSpace(row[1]),
		}
		if len(row) > 2 {
			rec.Category = strings.TrimSpace(row[2])
		}
		out = append(out, rec)
	}
	return out, nil
}
