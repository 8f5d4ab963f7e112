// Package types holds the wire types of the datastore API, shared between
// the client and the mock server.
package types

// Item is the metadata part of a push. Data carries base64-encoded inline
// bytes and is only set when the payload is not streamed as a file part.
type Item struct {
	Serial string `json:"serial" validate:"required"`
	Type   string `json:"type"   validate:"required"`
	Data   string `json:"data,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// PushResponse is the expected body of a successful push: {"success":true}.
type PushResponse struct {
	Success bool `json:"success"`
}

// PullQuery selects previously pushed items by serial/type/tag.
type PullQuery struct {
	Serial string `json:"serial" validate:"required"`
	Type   string `json:"type"   validate:"required"`
	Tag    string `json:"tag"`
}

// PullEntry is one element of a pull response. Entries without a DataFileURI
// are legal and are skipped by the response parser.
type PullEntry struct {
	DataFileURI string `json:"dataFileUri,omitempty"`
}

const (
	// Multipart field names of the push endpoint.
	ItemField     = "item"
	DataFileField = "dataFile"
)
