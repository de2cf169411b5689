package services

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error
	system   string
	text     string
}

func (g *fakeGenerator) Generate(_ context.Context, system, text string) (string, error) {
	g.system, g.text = system, text
	return g.response, g.err
}

func TestParseInsights(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"- one\n- two\n- three", []string{"one", "two", "three"}},
		{"• alpha • beta\n\n• gamma", []string{"alpha", "beta", "gamma"}},
		{"  \n \n", []string{}},
		{"single insight", []string{"single insight"}},
		{"state-of-the-art", []string{"state", "of", "the", "art"}},
	}

	for _, test := range tests {
		got := ParseInsights(test.input)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("ParseInsights(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestExtractTextTruncatesPlainFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("é", 20)), 0o644))

	text, err := ExtractText(path, 5)
	require.NoError(t, err)
	assert.Equal(t, "ééééé", text)
}

func TestExtractTextDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Graph</w:t></w:r><w:r><w:t xml:space="preserve"> methods</w:t></w:r></w:p>
<w:p><w:r><w:t>Results</w:t></w:r></w:p>
</w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := ExtractText(path, 100)
	require.NoError(t, err)
	assert.Equal(t, "Graph methods\nResults\n", text)
}

func TestInsightServiceExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.txt")
	require.NoError(t, os.WriteFile(path, []byte("We study graphs."), 0o644))

	gen := &fakeGenerator{response: "- Studies graphs\n- Proposes a method"}
	svc := NewInsightService(gen)

	insights, err := svc.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Studies graphs", "Proposes a method"}, insights)
	assert.Equal(t, INSIGHT_SYSTEM_PROMPT, gen.system)
	assert.Equal(t, "We study graphs.", gen.text)

	gen.err = errors.New("down")
	_, err = svc.Extract(context.Background(), path)
	assert.Error(t, err)

	gen.err, gen.response = nil, "  \n"
	_, err = svc.Extract(context.Background(), path)
	assert.Error(t, err)

	_, err = svc.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
