package pdfextract

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onePagePDF renders text on a single Helvetica page with a valid xref table.
func onePagePDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)
	return buf.Bytes()
}

func TestExtractText_OnePage(t *testing.T) {
	text, err := ExtractText(bytes.NewReader(onePagePDF("Total due: $42")))
	require.NoError(t, err)
	assert.Contains(t, text, "Total due: $42")
}

func TestExtractor_OnePage(t *testing.T) {
	text, err := Extractor{}.ExtractText(bytes.NewReader(onePagePDF("Invoice 7")))
	require.NoError(t, err)
	assert.Contains(t, text, "Invoice 7")
}

func TestExtractText_EmptyInput(t *testing.T) {
	text, err := ExtractText(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractText_NotAPDF(t *testing.T) {
	_, err := Extractor{}.ExtractText(strings.NewReader("this is plain text, not a pdf"))
	assert.Error(t, err)
}
