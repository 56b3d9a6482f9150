// Package review produces the printable companion documents for a course: a
// markdown vocabulary sheet and an optional PDF rendering.
package review

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"

	"github.com/lessonforge/lessonforge/internal/dictionary"
	"github.com/lessonforge/lessonforge/internal/leitner"
)

// WriteSheets writes the pipe-delimited sheet and the markdown table for a
// dataset into outputDir, returning the markdown path.
func WriteSheets(outputDir, dataset, title string, deck *leitner.Deck) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", outputDir, err)
	}

	sheetPath := filepath.Join(outputDir, dataset+"-challenges.txt")
	sheetFile, err := os.Create(sheetPath)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", sheetPath, err)
	}
	defer func() {
		_ = sheetFile.Close()
	}()
	if err := dictionary.WriteReviewSheet(sheetFile, deck); err != nil {
		return "", fmt.Errorf("dictionary.WriteReviewSheet > %w", err)
	}

	markdownPath := filepath.Join(outputDir, dataset+"-vocabulary.md")
	markdown := dictionary.ReviewSheetMarkdown(deck, title)
	if err := os.WriteFile(markdownPath, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	return markdownPath, nil
}

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}
