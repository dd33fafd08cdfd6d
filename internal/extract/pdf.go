package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtractionFailed reports a corrupt or unreadable document.
var ErrExtractionFailed = errors.New("document extraction failed")

// PDFText extracts and concatenates per-page plain text in source order.
// Pages with no extractable text (e.g. scanned image pages) contribute
// nothing; a zero-page document yields an empty string, not an error.
func PDFText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A page without extractable text yields nothing, not a failure.
			continue
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}
