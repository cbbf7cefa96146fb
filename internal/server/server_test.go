package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
)

const document = `
User:
  columns:
    - name: id
      type: Integer
      primary_key: true
    - name: name
      type: Unicode(20)
Broken:
  columns:
    - name: x
      type: Integer
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	return New(gen.MustNewConfig(gen.WithAuthor("server")), zap.NewNop(), opts...)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestFormats(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/v1/formats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []formatItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 4)
	assert.Equal(t, "yaml", out[0].Name)
	assert.Contains(t, out[0].Extensions, ".json")
}

func TestCompile(t *testing.T) {
	rec := do(t, newServer(t), http.MethodPost, "/v1/compile?author=jdoe", document)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp compileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entities, 2)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "User", resp.Entities[0].Name)
	assert.Equal(t, "User.py", resp.Entities[0].File)
	assert.Contains(t, resp.Entities[0].Source, "__author__ = 'jdoe'")
	assert.Contains(t, resp.Entities[0].Source, "__tablename__ = 'users'")
	assert.Equal(t, "Broken", resp.Entities[1].Name)
}

func TestCompileJSON(t *testing.T) {
	body := `{"Tag": {"columns": [{"name": "label", "type": "Unicode"}]}}`
	rec := do(t, newServer(t), http.MethodPost, "/v1/compile", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "__author__ = 'server'")
}

func TestCompileUnsafeName(t *testing.T) {
	body := `"../x": {"columns": [{"name": "id", "type": "Integer"}]}`
	rec := do(t, newServer(t), http.MethodPost, "/v1/compile", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp compileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Entities)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "../x", resp.Errors[0].Entity)
}

func TestCompileBadRequests(t *testing.T) {
	s := newServer(t, WithMaxBody(64))
	tests := []struct {
		name   string
		target string
		body   string
		code   int
		err    string
	}{
		{"unknown format", "/v1/compile?format=xml", document, http.StatusBadRequest, "unsupported"},
		{"missing type", "/v1/compile", "User:\n  columns:\n    - name: id\n", http.StatusBadRequest, `must define \"type\"`},
		{"multi-line author", "/v1/compile?author=a%0Ab", "{}", http.StatusBadRequest, "author cannot span lines"},
		{"too large", "/v1/compile", strings.Repeat("#", 65), http.StatusRequestEntityTooLarge, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.err)
		})
	}
}

func TestLint(t *testing.T) {
	rec := do(t, newServer(t), http.MethodPost, "/v1/lint", document)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Issues []lintIssue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "warning", out.Issues[0].Severity)
	assert.Equal(t, "Broken", out.Issues[0].Entity)
}
