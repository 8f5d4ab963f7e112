package datastore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bsg-ground/datastore-stressor/internal/logger"
	"github.com/bsg-ground/datastore-stressor/internal/types"
)

// PushRequest describes one push. Exactly one payload source is required:
// FilePath streams the file as the dataFile part, Data rides inline in the
// item JSON as base64.
type PushRequest struct {
	DataType string
	Serial   string
	FilePath string
	Data     []byte
	Tag      string
}

// Push uploads an item to the datastore. The returned bool mirrors the
// datastore's own success verdict; transport and protocol failures are
// logged and reported as false rather than as errors, so a flaky server
// never aborts the caller's loop. The only error returned is
// ErrNoPayloadSource, raised before any network call.
func (c *Client) Push(ctx context.Context, req PushRequest) (bool, error) {
	ctx, span := tracer.Start(ctx, "Client.Push", trace.WithAttributes(
		attribute.String("serial", req.Serial),
		attribute.String("type", req.DataType),
		attribute.String("tag", req.Tag),
	))
	defer span.End()

	if req.FilePath == "" && len(req.Data) == 0 {
		span.RecordError(ErrNoPayloadSource)
		span.SetStatus(codes.Error, "no payload source")
		return false, ErrNoPayloadSource
	}

	item := types.Item{
		Serial: req.Serial,
		Type:   req.DataType,
		Tag:    req.Tag,
	}
	if len(req.Data) > 0 {
		item.Data = base64.StdEncoding.EncodeToString(req.Data)
	}

	body, contentType, err := buildPushBody(item, req.FilePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build multipart body")
		logger.Logger.WarnContext(ctx, "failed to build push body", "error", err)
		return false, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		logger.Logger.WarnContext(ctx, "failed to construct push request", "error", err)
		return false, nil
	}
	httpReq.Header.Set("Content-Type", contentType)

	logger.Logger.InfoContext(ctx, "pushing to datastore", "url", c.pushURL)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "push request failed")
		logger.Logger.WarnContext(ctx, "network error pushing to datastore", "error", err)
		return false, nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read push response")
		logger.Logger.WarnContext(ctx, "failed to read datastore response", "error", err)
		return false, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "push rejected")
		logger.Logger.WarnContext(ctx, "pushing to the datastore failed",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return false, nil
	}

	// The expected response body is {"success":true}. Anything that does not
	// parse to a JSON object with a boolean success field counts as failure.
	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed push response")
		logger.Logger.WarnContext(ctx, "datastore returned an unknown response",
			"error", err,
			"body", string(respBody),
		)
		return false, nil
	}

	success, ok := parsed["success"].(bool)
	if !ok {
		span.SetStatus(codes.Error, "push response missing success field")
		logger.Logger.WarnContext(ctx, "datastore response missing success field",
			"body", string(respBody),
		)
		return false, nil
	}

	if !success {
		span.SetStatus(codes.Error, "datastore reported failure")
		logger.Logger.WarnContext(ctx, "datastore responded with failure",
			"body", string(respBody),
		)
		return false, nil
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "pushed item")
	return true, nil
}

// buildPushBody renders the multipart form: an item part with the JSON
// metadata and, when a file path is given, a dataFile part with the raw file
// bytes. The file handle is closed before returning on every path.
func buildPushBody(item types.Item, filePath string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	itemJSON, err := json.Marshal(item)
	if err != nil {
		return nil, "", err
	}

	itemPart, err := writer.CreateFormField(types.ItemField)
	if err != nil {
		return nil, "", err
	}
	if _, err := itemPart.Write(itemJSON); err != nil {
		return nil, "", err
	}

	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()

		filePart, err := writer.CreateFormFile(types.DataFileField, filepath.Base(filePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(filePart, f); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
