package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"code.sajari.com/docconv"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// DocconvExtractor implements core.DocumentExtractor using sajari/docconv.
// It handles both PDF and word-processor formats; the filename extension
// picks the parsing strategy.
type DocconvExtractor struct {
	useReadability bool
}

func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{useReadability: false}
}

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

// Extract returns the full plain text of the document plus document-level
// metadata. The reader is consumed fully; extraction is a blocking call.
func (e *DocconvExtractor) Extract(ctx context.Context, r io.Reader, filename string) (*core.ExtractedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mimeType := docconv.MimeTypeByExtension(filename)
	res, err := docconv.Convert(bytes.NewReader(data), mimeType, e.useReadability)
	if err != nil {
		return nil, fmt.Errorf("docconv %s: %w", filename, err)
	}

	filetype := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	meta := map[string]any{
		models.MetaFilename:     filepath.Base(filename),
		models.MetaFilesize:     len(data),
		models.MetaFiletype:     filetype,
		models.MetaLastModified: time.Now().UTC().Format(time.RFC3339),
	}
	// docconv reports page counts for paged formats in its meta map.
	if pages, ok := res.Meta["PageCount"]; ok {
		if n, err := strconv.Atoi(pages); err == nil {
			meta[models.MetaPages] = n
		}
	} else {
		meta[models.MetaParagraphs] = strings.Count(res.Body, "\n\n") + 1
	}

	return &core.ExtractedDocument{Text: res.Body, Metadata: meta}, nil
}
