// Package ingest turns uploaded report files into analysable text.
//
// Text files may be UTF-8, UTF-16 with a BOM, or legacy Windows-1252.
// HTML is reduced to Markdown and PDFs have their text layer extracted.
// Anything else is read as raw text, which for .doc and .docx yields
// whatever printable bytes the container happens to hold.
package ingest

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/termalign/termalign-server/internal/analysis"
	"github.com/termalign/termalign-server/internal/errors"
)

// Encodings reported on a Document.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

// Formats reported on a Document.
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// AcceptedExtensions lists the file types an upload may carry.
var AcceptedExtensions = []string{".txt", ".doc", ".docx", ".pdf", ".md", ".csv", ".html", ".htm"}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Document is a decoded report.
type Document struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
	Format   string `json:"format"`
	Encoding string `json:"encoding"`
}

// Accepts reports whether fileName has an accepted extension.
// Names without an extension are treated as plain text.
func Accepts(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return ext == "" || slices.Contains(AcceptedExtensions, ext)
}

// Decode converts raw upload bytes into a Document. Empty content is a
// validation error, same as an empty report posted as text.
func Decode(fileName string, data []byte) (Document, error) {
	if !Accepts(fileName) {
		return Document{}, errors.Validationf("unsupported file type %q (accepted: %s)",
			filepath.Ext(fileName), strings.Join(AcceptedExtensions, ", "))
	}

	doc := Document{FileName: fileName, Format: FormatText}
	ext := strings.ToLower(filepath.Ext(fileName))

	if ext == ".pdf" {
		// Unreadable PDFs fall through to raw text.
		if text, err := extractPDFText(data); err == nil && text != "" {
			doc.Text, doc.Format, doc.Encoding = text, FormatPDF, EncodingUTF8
			return doc, nil
		}
	}

	text, enc, err := decodeText(data)
	if err != nil {
		return Document{}, errors.Wrap(err, errors.CodeValidation, "could not decode report text")
	}
	doc.Text, doc.Encoding = text, enc

	if ext == ".html" || ext == ".htm" {
		doc.Text = htmlToText(text)
		doc.Format = FormatHTML
	}

	if err := analysis.ValidateReport(doc.Text); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// decodeText sniffs the byte-order mark, then UTF-8 validity, falling back
// to Windows-1252 which maps every byte.
func decodeText(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), EncodingUTF8, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, EncodingUTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, EncodingUTF16BE)
	case utf8.Valid(data):
		return string(data), EncodingUTF8, nil
	default:
		return decodeWith(charmap.Windows1252, data, EncodingWindows1252)
	}
}

func decodeWith(enc encoding.Encoding, data []byte, name string) (string, string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", err
	}
	return string(out), name, nil
}
