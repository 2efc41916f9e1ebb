package recon

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recon-manager/core/reconcile"
	"recon-manager/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() reconcile.Config {
	return reconcile.Config{SuffixLeft: "_left", SuffixRight: "_right", Sheet: "Sheet1", CacheTTLSeconds: 60}
}

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	t.Helper()
	app := fiber.New()
	mockClient := new(mocks.Client)
	feature := NewFeature(mockClient, "recon", zap.NewNop(), nil, testConfig())
	require.NoError(t, feature.Load(app))
	return app, mockClient
}

func send(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func inlineRequest() Request {
	return Request{
		Params: Params{LeftOn: "id", RightOn: "id"},
		Left: DatasetInput{
			Name:    "ledger",
			Columns: []string{"id", "amount"},
			Rows:    [][]any{{1, 10}, {2, 20}, {2, 21}},
		},
		Right: DatasetInput{
			Name:    "bank",
			Columns: []string{"id", "amount"},
			Rows:    [][]any{{2, 20}, {3, 30}},
		},
	}
}

func TestHandleReconcile(t *testing.T) {
	app, _ := setupTestApp(t)

	req := inlineRequest()
	req.Views = []string{reconcile.ViewLeftOnly, reconcile.ViewBoth}
	resp, body := send(t, app, "POST", "/recon", req)
	require.Equal(t, 200, resp.StatusCode)

	assert.NotEmpty(t, body["id"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "m:1", summary["relationship"])
	assert.Equal(t, float64(2), summary["pairs"])
	assert.Equal(t, "ledger", summary["left"].(map[string]any)["name"])

	views := body["views"].([]any)
	require.Len(t, views, 2)
	both := views[1].(map[string]any)
	assert.Equal(t, "both", both["name"])
	assert.Equal(t, []any{"left_index", "right_index", "id", "amount_left", "amount_right"}, both["columns"])
	assert.Len(t, both["rows"], 2)
}

func TestHandleReconcile_DefaultsToAllView(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := send(t, app, "POST", "/recon?limit=2&verify=true", inlineRequest())
	require.Equal(t, 200, resp.StatusCode)

	views := body["views"].([]any)
	require.Len(t, views, 1)
	all := views[0].(map[string]any)
	assert.Equal(t, "all", all["name"])
	assert.Len(t, all["rows"], 2)
	assert.Equal(t, true, body["verified"])
}

func TestHandleReconcile_LargeIdentifiers(t *testing.T) {
	app, _ := setupTestApp(t)

	raw := `{"left_on": "id", "right_on": "ref",
		"left": {"columns": ["id"], "rows": [[90071992547409931]]},
		"right": {"columns": ["ref"], "rows": [["90071992547409931"], [90071992547409932]]}}`
	resp, body := send(t, app, "POST", "/recon", raw)
	require.Equal(t, 200, resp.StatusCode)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["pairs"])
	assert.Equal(t, float64(1), summary["right"].(map[string]any)["only"])
}

func TestHandleReconcile_Errors(t *testing.T) {
	app, _ := setupTestApp(t)

	tests := []struct {
		name   string
		mutate func(r *Request)
		status int
		msg    string
	}{
		{"UnknownKey", func(r *Request) { r.LeftOn = "nope" }, 400, "invalid key attribute"},
		{"UnknownView", func(r *Request) { r.Views = []string{"sideways"} }, 400, "unknown view"},
		{"BadSuffixes", func(r *Request) { r.Suffixes = []string{"_x"} }, 400, "invalid request"},
		{"SameSuffixes", func(r *Request) { r.Suffixes = []string{"", ""} }, 400, "ambiguous suffix"},
		{"RowTooWide", func(r *Request) { r.Right.Rows = [][]any{{1, 2, 3}} }, 400, "row wider than schema"},
		{"UnknownRelationship", func(r *Request) { r.Relationship = "2:3" }, 400, "unknown relationship"},
		{"RelationshipMismatch", func(r *Request) { r.Relationship = "1:1" }, 422, "relationship mismatch"},
		{"UnsupportedKey", func(r *Request) { r.Left.Rows = [][]any{{[]any{1}, 10}} }, 400, "key type mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := inlineRequest()
			tt.mutate(&req)
			resp, body := send(t, app, "POST", "/recon", req)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, body["error"], tt.msg)
		})
	}

	t.Run("MalformedBody", func(t *testing.T) {
		resp, body := send(t, app, "POST", "/recon", "{not json")
		assert.Equal(t, 400, resp.StatusCode)
		assert.Contains(t, body["error"], "invalid request")
	})
}

func TestHandleReconcile_PairLimit(t *testing.T) {
	cfg := testConfig()
	cfg.ServerMaxPairs = 3
	app := fiber.New()
	require.NoError(t, NewFeature(new(mocks.Client), "recon", zap.NewNop(), nil, cfg).Load(app))

	req := inlineRequest()
	req.Left.Rows = [][]any{{7, 1}, {7, 2}}
	req.Right.Rows = [][]any{{7, 1}, {7, 2}}

	resp, body := send(t, app, "POST", "/recon", req)
	assert.Equal(t, 413, resp.StatusCode)
	assert.Contains(t, body["error"], "4 pairs exceed limit of 3")
}

func TestHandleReconcileSources(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("GetObject", mock.Anything, "recon", "left.csv", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("id,amount\n1,10\n2,20\n")), nil).Once()
	mockClient.On("GetObject", mock.Anything, "in", "right.json", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader(`[{"id": 2, "amount": 20}, {"id": 4, "amount": 40}]`)), nil).Once()

	req := SourceRequest{
		Params: Params{LeftOn: "id", RightOn: "id", Relationship: "1:1"},
		Left:   "s3:///left.csv",
		Right:  "s3://in/right.json",
	}

	resp, body := send(t, app, "POST", "/recon/sources", req)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, false, body["cached"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "s3://recon/left.csv", summary["left"].(map[string]any)["name"])
	assert.Equal(t, float64(1), summary["pairs"])

	// Same sources and keys reuse the engine
	resp, body = send(t, app, "POST", "/recon/sources", req)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, true, body["cached"])
	mockClient.AssertNumberOfCalls(t, "GetObject", 2)
}

func TestHandleReconcileSources_Upload(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("GetObject", mock.Anything, "recon", "a.csv", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("k\nx\n")), nil).Once()
	mockClient.On("GetObject", mock.Anything, "recon", "b.csv", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("k\ny\n")), nil).Once()
	mockClient.On("BucketExists", mock.Anything, "recon").Return(true, nil)
	mockClient.On("PutObject", mock.Anything, "recon", "runs/out.xlsx", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{Bucket: "recon", Key: "runs/out.xlsx"}, nil)

	req := SourceRequest{
		Params: Params{LeftOn: "k", RightOn: "k", Views: []string{"left_only", "right_only"}},
		Left:   "s3://recon/a.csv",
		Right:  "s3://recon/b.csv",
		Output: "runs/out.xlsx",
	}
	resp, body := send(t, app, "POST", "/recon/sources", req)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "s3://recon/runs/out.xlsx", body["output"])
	mockClient.AssertExpectations(t)
}

func TestHandleReconcileSources_Errors(t *testing.T) {
	app, _ := setupTestApp(t)

	tests := []struct {
		name   string
		req    SourceRequest
		status int
		msg    string
	}{
		{"LocalFile", SourceRequest{Params: Params{LeftOn: "id", RightOn: "id"}, Left: "/etc/passwd", Right: "s3://recon/r.csv"}, 400, "must be an s3:// or db:// source"},
		{"BadURI", SourceRequest{Params: Params{LeftOn: "id", RightOn: "id"}, Left: "s3://recon", Right: "s3://recon/r.csv"}, 400, "invalid source uri"},
		{"NoDatabase", SourceRequest{Params: Params{LeftOn: "id", RightOn: "id"}, Left: "db://accounts", Right: "db://ledger"}, 503, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := send(t, app, "POST", "/recon/sources", tt.req)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, body["error"], tt.msg)
		})
	}
}

func TestHandleListSources(t *testing.T) {
	app, mockClient := setupTestApp(t)

	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "in/left.csv"}
	ch <- minio.ObjectInfo{Key: "in/readme.md"}
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "recon", minio.ListObjectsOptions{Prefix: "in/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	resp, body := send(t, app, "GET", "/recon/sources?prefix=in/", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "recon", body["bucket"])
	assert.Equal(t, []any{"in/left.csv"}, body["objects"])
}
