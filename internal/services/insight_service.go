package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxInsightChars caps how much paper text is sent to the model.
const maxInsightChars = 6000

// Generator produces a completion for text under a system prompt.
type Generator interface {
	Generate(ctx context.Context, system, text string) (string, error)
}

// InsightService turns an uploaded paper into a short list of insights.
type InsightService struct {
	generator Generator
	maxChars  int
}

func NewInsightService(generator Generator) *InsightService {
	return &InsightService{generator: generator, maxChars: maxInsightChars}
}

// Extract reads the paper at filePath and asks the generator for insights.
func (s *InsightService) Extract(ctx context.Context, filePath string) ([]string, error) {
	text, err := ExtractText(filePath, s.maxChars)
	if err != nil {
		return nil, fmt.Errorf("failed to read paper text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no readable text in %s", filepath.Base(filePath))
	}

	response, err := s.generator.Generate(ctx, INSIGHT_SYSTEM_PROMPT, text)
	if err != nil {
		return nil, err
	}
	insights := ParseInsights(response)
	if len(insights) == 0 {
		return nil, fmt.Errorf("model returned no insights")
	}
	return insights, nil
}

// ParseInsights splits a model response into trimmed, non-empty items. Lines,
// bullets and dashes all separate items.
func ParseInsights(response string) []string {
	parts := strings.FieldsFunc(response, func(r rune) bool {
		return r == '\n' || r == '•' || r == '-'
	})
	insights := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			insights = append(insights, p)
		}
	}
	return insights
}

// ExtractText returns at most limit characters of readable text from a pdf,
// docx or plain file. Other extensions are read as raw bytes.
func ExtractText(filePath string, limit int) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err = pdfText(filePath, limit)
	case ".docx":
		text, err = docxText(filePath, limit)
	default:
		var data []byte
		data, err = readPrefix(filePath, limit*4)
		text = string(bytes.ToValidUTF8(data, nil))
	}
	if err != nil {
		return "", err
	}
	return truncateRunes(text, limit), nil
}

func pdfText(filePath string, limit int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(plain, int64(limit*4)))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(string(data)), " "), nil
}

// docxText pulls the text runs out of word/document.xml, one line per
// paragraph.
func docxText(filePath string, limit int) (string, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return documentXMLText(rc, limit)
	}
	return "", fmt.Errorf("word/document.xml not found")
}

func documentXMLText(r io.Reader, limit int) (string, error) {
	var (
		b      strings.Builder
		inText bool
	)
	decoder := xml.NewDecoder(r)
	for b.Len() < limit*4 {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" {
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func readPrefix(filePath string, n int) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, int64(n)))
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
