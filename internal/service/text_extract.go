package service

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"rsc.io/pdf"
)

// ── document text extraction ──

var ErrUnsupportedFileType = errors.New("unsupported file type")

// DocumentKind classifies an upload for text extraction.
type DocumentKind string

const (
	DocPDF      DocumentKind = "pdf"
	DocMarkdown DocumentKind = "markdown"
	DocImage    DocumentKind = "image"
	DocUnknown  DocumentKind = "unknown"
)

// ClassifyDocument decides the extraction strategy from content type and
// filename.
func ClassifyDocument(contentType, filename string) DocumentKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return DocPDF
	case strings.HasPrefix(ct, "image/"):
		return DocImage
	case strings.Contains(ct, "markdown"), strings.HasPrefix(ct, "text/"):
		return DocMarkdown
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return DocPDF
	case ".md", ".markdown", ".txt":
		return DocMarkdown
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return DocImage
	}
	return DocUnknown
}

// ExtractText turns an uploaded document into plain text.
//
// Images are stored but not parsed: the product's OCR pass lives outside
// this service, so they surface ErrUnsupportedFileType here.
func ExtractText(data []byte, kind DocumentKind) (string, error) {
	switch kind {
	case DocPDF:
		return extractPDFText(data)
	case DocMarkdown:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: document is not valid UTF-8", ErrUnsupportedFileType)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, kind)
	}
}

// extractPDFText joins the text runs of every page, page by page.
func extractPDFText(data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= doc.NumPage(); pageNum++ {
		page := doc.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text.S)
		}
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}
