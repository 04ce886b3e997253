package mcp

// Resource-related types
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

type ResourceResponse struct {
	Contents []ResourceContent `json:"contents"`
}

type ResourceParams struct {
	URI string `json:"uri"`
}
