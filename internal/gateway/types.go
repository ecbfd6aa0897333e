package gateway

import (
	"github.com/MrJamesThe3rd/billed/internal/bill"
)

// Upload is a proof file selected by the user.
type Upload struct {
	Name     string
	MIMEType string
	Content  []byte
}

// CreatePayload is sent as multipart form data with a "file" and an "email" part.
type CreatePayload struct {
	File    Upload
	Email   string
	Headers map[string]string
}

type CreateResult struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// UpdatePayload replaces the bill selected by Selector with Bill.
type UpdatePayload struct {
	Bill     bill.Bill
	Selector string
}
