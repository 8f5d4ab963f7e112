package fetch

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer(
	"github.com/bsg-ground/datastore-stressor/internal/fetch",
)

// Fetcher downloads the content behind a URI for verification.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
