package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
)

type recordedRequest struct {
	method, path, body string
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*UserIndex, *[]recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{r.Method, r.URL.Path, string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewUserIndex(es, "users"), &reqs
}

func TestIndexOmitsCredentials(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Index(context.Background(), &entity.User{ID: "u1", Email: "a@example.com", Password: "secret", RoleID: "r1"})
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/users/_doc/u1", got.path)
	assert.Contains(t, got.body, `"email":"a@example.com"`)
	assert.NotContains(t, got.body, "secret")
}

func TestRemoveIgnoresMissingDocument(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, idx.Remove(context.Background(), "ghost"))
}

func TestSearchDecodesHits(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"u1","_source":{"id":"u1","email":"a@example.com","first_name":"Ana"}}]}}`))
	})

	docs, err := idx.Search(context.Background(), "ana", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ana", docs[0].FirstName)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*reqs)[0].body), &body))
	assert.EqualValues(t, 10, body["size"])
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/_search"))
}

func TestSearchReportsErrorStatus(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := idx.Search(context.Background(), "ana", 5)
	assert.Error(t, err)
}
