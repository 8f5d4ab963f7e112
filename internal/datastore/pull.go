package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bsg-ground/datastore-stressor/internal/logger"
	"github.com/bsg-ground/datastore-stressor/internal/types"
)

// Pull queries the datastore for items matching serial/type/tag. Transport
// failures are logged and surface as a nil response; interpreting the body
// is ParseResponse's job.
func (c *Client) Pull(
	ctx context.Context,
	serial, dataType, tag string,
) *http.Response {
	ctx, span := tracer.Start(ctx, "Client.Pull", trace.WithAttributes(
		attribute.String("serial", serial),
		attribute.String("type", dataType),
		attribute.String("tag", tag),
	))
	defer span.End()

	query := types.PullQuery{
		Serial: serial,
		Type:   dataType,
		Tag:    tag,
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal pull query")
		logger.Logger.WarnContext(ctx, "failed to marshal pull query", "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.pullURL,
		bytes.NewReader(queryJSON),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		logger.Logger.WarnContext(ctx, "failed to construct pull request", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Logger.InfoContext(ctx, "pulling from datastore", "url", c.pullURL)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pull request failed")
		logger.Logger.WarnContext(ctx, "error posting pull request", "error", err)
		return nil
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "pulled from datastore")
	return resp
}

// ParseResponse extracts the dataFileUri of every entry in a pull response,
// in response order. Missing, failed, or malformed responses collapse to an
// empty list; this never returns an error. Consumes and closes the body.
func ParseResponse(ctx context.Context, resp *http.Response) []string {
	ctx, span := tracer.Start(ctx, "ParseResponse")
	defer span.End()

	if resp == nil {
		span.SetStatus(codes.Error, "no response to parse")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "bad pull response")
		logger.Logger.WarnContext(ctx, "bad pull response",
			"status", resp.StatusCode,
			"reason", resp.Status,
		)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read pull response")
		logger.Logger.WarnContext(ctx, "failed to read pull response", "error", err)
		return nil
	}

	var entries []types.PullEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode pull response")
		logger.Logger.WarnContext(ctx, "failed to decode json pull response", "error", err)
		return nil
	}

	uris := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.DataFileURI != "" {
			uris = append(uris, entry.DataFileURI)
		}
	}

	span.AddEvent("parsed", trace.WithAttributes(attribute.Int("uris", len(uris))))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "parsed pull response")
	return uris
}
