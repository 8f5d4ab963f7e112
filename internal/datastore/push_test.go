package datastore_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsg-ground/datastore-stressor/internal/datastore"
	"github.com/bsg-ground/datastore-stressor/internal/types"
)

func newTestClient(serverURL string) *datastore.Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.Logger = nil
	return datastore.NewClient(httpClient.StandardClient(), serverURL+"/item", serverURL+"/item/data/all")
}

func writePayloadFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, content, 0o600), "failed to write payload file")
	return path
}

func TestPush(t *testing.T) {
	ctx := context.Background()

	t.Run("NoPayloadSource", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		ok, err := client.Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
		})
		require.ErrorIs(t, err, datastore.ErrNoPayloadSource, "expected the configuration error")
		assert.False(t, ok, "push must not succeed")
		assert.Zero(t, calls.Load(), "no network call may be made")
	})

	t.Run("FilePayload", func(t *testing.T) {
		payload := []byte("the payload bytes")
		path := writePayloadFile(t, payload)

		var gotItem types.Item
		var gotFile []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20), "expected a multipart body")

			require.NoError(t,
				json.Unmarshal([]byte(r.MultipartForm.Value[types.ItemField][0]), &gotItem),
				"item part must be JSON",
			)

			f, err := r.MultipartForm.File[types.DataFileField][0].Open()
			require.NoError(t, err, "failed to open dataFile part")
			defer f.Close()
			gotFile, err = io.ReadAll(f)
			require.NoError(t, err, "failed to read dataFile part")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		ok, err := client.Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			FilePath: path,
			Tag:      "test-Ab3Xy",
		})
		require.NoError(t, err, "push failed")
		assert.True(t, ok, "push should succeed")

		assert.Equal(t, "M000000000000", gotItem.Serial, "wrong serial")
		assert.Equal(t, "inquire.network", gotItem.Type, "wrong type")
		assert.Equal(t, "test-Ab3Xy", gotItem.Tag, "wrong tag")
		assert.Empty(t, gotItem.Data, "file pushes must not inline data")
		assert.Equal(t, payload, gotFile, "wrong file bytes")
	})

	t.Run("InlineData", func(t *testing.T) {
		payload := []byte("inline bytes")

		var gotItem types.Item
		var hadFilePart bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20), "expected a multipart body")
			require.NoError(t,
				json.Unmarshal([]byte(r.MultipartForm.Value[types.ItemField][0]), &gotItem),
				"item part must be JSON",
			)
			hadFilePart = len(r.MultipartForm.File[types.DataFileField]) > 0

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		ok, err := client.Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			Data:     payload,
		})
		require.NoError(t, err, "push failed")
		assert.True(t, ok, "push should succeed")

		assert.Equal(t, base64.StdEncoding.EncodeToString(payload), gotItem.Data, "data must be base64")
		assert.Empty(t, gotItem.Tag, "empty tag must be omitted")
		assert.False(t, hadFilePart, "inline pushes carry no file part")
	})

	t.Run("ServerReportsFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"success":false}`))
		}))
		defer server.Close()

		ok, err := newTestClient(server.URL).Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			Data:     []byte("x"),
		})
		require.NoError(t, err, "server failure is not a client error")
		assert.False(t, ok, "push must report failure")
	})

	t.Run("MissingSuccessField", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		ok, err := newTestClient(server.URL).Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			Data:     []byte("x"),
		})
		require.NoError(t, err, "malformed response is not a client error")
		assert.False(t, ok, "missing success field must count as failure")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		ok, err := newTestClient(server.URL).Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			Data:     []byte("x"),
		})
		require.NoError(t, err, "malformed response is not a client error")
		assert.False(t, ok, "unparsable body must count as failure")
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ok, err := newTestClient(server.URL).Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			Data:     []byte("x"),
		})
		require.NoError(t, err, "rejected push is not a client error")
		assert.False(t, ok, "non-2xx must count as failure")
	})

	t.Run("TransportError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		ok, err := newTestClient(server.URL).Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			Data:     []byte("x"),
		})
		require.NoError(t, err, "transport errors must not propagate")
		assert.False(t, ok, "transport errors must count as failure")
	})

	t.Run("MissingFile", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		ok, err := newTestClient(server.URL).Push(ctx, datastore.PushRequest{
			DataType: "inquire.network",
			Serial:   "M000000000000",
			FilePath: filepath.Join(t.TempDir(), "does-not-exist"),
		})
		require.NoError(t, err, "an unreadable file is reported, not raised")
		assert.False(t, ok, "push must report failure")
		assert.Zero(t, calls.Load(), "no request should go out without a body")
	})
}
