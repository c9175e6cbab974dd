// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfStopMarker ends PDF extraction after the page that contains it.
const pdfStopMarker = "Acknowledgements"

// PDFText extracts plain text page by page, stopping after the first page
// that contains the acknowledgements heading. Pages that fail to decode are
// skipped.
func PDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed PDF: %v", ErrUnexpectedShape, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parse PDF: %v", ErrUnexpectedShape, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		if strings.Contains(pageText, pdfStopMarker) {
			break
		}
	}
	return b.String(), nil
}
