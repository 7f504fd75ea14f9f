package core

import (
	"context"
	"io"
)

// ExtractedDocument is the result of text extraction: the full plain text
// plus document-level metadata (filename, filesize, filetype, page or
// paragraph count, last-modified timestamp).
type ExtractedDocument struct {
	Text     string
	Metadata map[string]any
}

// DocumentExtractor is the parsing capability the pipeline consumes. The
// filename hint lets the extractor choose the right parsing strategy.
type DocumentExtractor interface {
	Extract(ctx context.Context, r io.Reader, filename string) (*ExtractedDocument, error)
}

// ObjectClient defines interactions with S3 or any object storage holding
// raw documents awaiting ingestion.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	GetFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
	GetObjectReader(ctx context.Context, key string) (io.ReadCloser, error)
}
