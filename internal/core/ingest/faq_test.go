package ingest

import (
	"strings"
	"testing"
)

func TestReadFAQCSV(t *testing.T) {
	csv := strings.Join([]string{
		"question;answer;category",
		"What is your return policy?;Items can be returned within 30 days.;Returns",
		"How long does shipping take?;Standard shipping takes 3-5 business days.;Shipping",
		";orphan answer;Misc",
	}, "\n")

	records, err := ReadFAQCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Category != "Returns" {
		t.Fatalf("expected category Returns, got %q", records[0].Category)
	}

	content := records[1].Content()
	if !strings.HasPrefix(content, "Question: How long does shipping take?") {
		t.Fatalf("unexpected content: %q", content)
	}
	if !strings.Contains(content, "\nAnswer: Standard shipping takes 3-5 business days.") {
		t.Fatalf("content missing answer line: %q", content)
	}
}

func TestReadFAQCSV_Empty(t *testing.T) {
	records, err := ReadFAQCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestSourceForFilename(t *testing.T) {
	cases := map[string]string{
		"faq_dataset.csv": "faq",
		"report.PDF":      "pdf",
		"notes.docx":      "doc",
		"minutes.odt":     "doc",
	}
	for filename, want := range cases {
		if got := SourceForFilename(filename); string(got) != want {
			t.Fatalf("SourceForFilename(%q) = %q, want %q", filename, got, want)
		}
	}
}
