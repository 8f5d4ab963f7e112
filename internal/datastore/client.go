// Package datastore is the HTTP client for the Ground datastore API: a
// multipart push of an item plus payload, and a JSON pull that lists the
// download URIs of previously pushed items.
package datastore

import (
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer(
	"github.com/bsg-ground/datastore-stressor/internal/datastore",
)

// ErrNoPayloadSource is returned before any network activity when a push has
// neither a file path nor inline data. It marks a caller bug, not a
// datastore failure.
var ErrNoPayloadSource = errors.New("push requires a file path or inline data")

type Client struct {
	http    *http.Client
	pushURL string
	pullURL string
}

func NewClient(httpClient *http.Client, pushURL, pullURL string) *Client {
	return &Client{
		http:    httpClient,
		pushURL: pushURL,
		pullURL: pullURL,
	}
}
