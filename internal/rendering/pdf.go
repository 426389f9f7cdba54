package rendering

import (
	"encoding/base64"
	"strings"

	"github.com/jonathan/career-assistant/internal/types"
)

// PDFDataURIPrefix starts every document reference produced by SynthesizePDF.
const PDFDataURIPrefix = "data:application/pdf;base64,"

// PDFFilename is the download name of a generated résumé.
const PDFFilename = "improved-resume.pdf"

// placeholderPDF is a one-page document reading "Improved Resume".
const placeholderPDF = `%PDF-1.4
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [3 0 R] /Count 1 >>
endobj
3 0 obj
<< /Type /Page /Parent 2 0 R /Resources << >> /MediaBox [0 0 612 792] /Contents 4 0 R >>
endobj
4 0 obj
<< /Length 44 >>
stream
BT /F1 12 Tf 100 700 Td (Improved Resume) Tj ET
endstream
endobj
xref
0 5
0000000000 65535 f
0000000009 00000 n
0000000053 00000 n
0000000107 00000 n
0000000183 00000 n
trailer
<< /Size 5 /Root 1 0 R >>
startxref
253
%%EOF
`

// PlaceholderPDF returns the bytes of the placeholder document.
func PlaceholderPDF() []byte {
	return []byte(placeholderPDF)
}

// SynthesizePDF returns a data URI for the résumé document. Real layout is out
// of scope; every document yields the same placeholder PDF. It never fails.
func SynthesizePDF(_ types.ResumeDocument) string {
	return PDFDataURIPrefix + base64.StdEncoding.EncodeToString(PlaceholderPDF())
}

// DecodeDataURI returns the PDF bytes held by a reference from SynthesizePDF.
func DecodeDataURI(ref string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(ref, PDFDataURIPrefix)
	if !ok {
		return nil, &RenderError{Stage: StageDataURI, Message: "not a PDF data URI"}
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &RenderError{Stage: StageDataURI, Message: "invalid base64 payload", Cause: err}
	}
	return data, nil
}
