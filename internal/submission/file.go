package submission

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
)

// File is the proof selected in the file input.
type File struct {
	Name     string
	MIMEType string
	Content  []byte
}

// ValidateFile checks the extension and the MIME type against the accepted
// proof formats. An empty MIME type is sniffed from the content. It returns
// the MIME type to send with the upload.
func ValidateFile(f File) (string, error) {
	if f.Name == "" {
		return "", &ValidationError{Field: FieldFile, Reason: "no file selected"}
	}

	ext := strings.TrimPrefix(filepath.Ext(f.Name), ".")
	if !bill.IsAllowedProofExtension(ext) {
		return "", &ValidationError{Field: FieldFile, Value: f.Name, Reason: "extension must be jpg, jpeg or png"}
	}

	mimeType := f.MIMEType
	if mimeType == "" {
		mimeType = mimetype.Detect(f.Content).String()
	}

	if !bill.IsAllowedProofMIMEType(mimeType) {
		return "", &ValidationError{Field: FieldFile, Value: mimeType, Reason: "file must be a jpeg or png image"}
	}

	return mimeType, nil
}

func (f File) upload(mimeType string) gateway.Upload {
	return gateway.Upload{Name: f.Name, MIMEType: mimeType, Content: f.Content}
}
