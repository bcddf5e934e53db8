package kvstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote mimics the token-protected item service.
type fakeRemote struct {
	mu     sync.Mutex
	token  string
	values map[string]json.RawMessage
	posts  int
}

func newFakeRemote(token string) *fakeRemote {
	return &fakeRemote{token: token, values: map[string]json.RawMessage{}}
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("token") != f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		value, ok := f.values[r.URL.Query().Get("key")]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "error", "message": "not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]json.RawMessage{"value": value}})
	case http.MethodPost:
		var req remoteSetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token != f.token {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		encoded, _ := json.Marshal(req.Value)
		f.values[req.Key] = encoded
		f.posts++
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestRemoteStore_SetThenGet(t *testing.T) {
	remote := newFakeRemote("tok")
	srv := httptest.NewServer(remote)
	defer srv.Close()

	store := NewRemoteStore(srv.URL, "tok", srv.Client())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "userDataBase", `[{"id":1}]`))

	value, err := store.Get(ctx, "userDataBase")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, value)
}

func TestRemoteStore_GetMissingKey(t *testing.T) {
	srv := httptest.NewServer(newFakeRemote("tok"))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, "tok", srv.Client())
	_, err := store.Get(context.Background(), "userDataBase")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteStore_GetRawJSONValue(t *testing.T) {
	remote := newFakeRemote("tok")
	remote.values["userDataBase"] = json.RawMessage(`[{"id":2}]`)
	srv := httptest.NewServer(remote)
	defer srv.Close()

	store := NewRemoteStore(srv.URL, "tok", srv.Client())
	value, err := store.Get(context.Background(), "userDataBase")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2}]`, value)
}

func TestRemoteStore_BadTokenIsNotTreatedAsEmpty(t *testing.T) {
	srv := httptest.NewServer(newFakeRemote("tok"))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, "wrong", srv.Client())
	_, err := store.Get(context.Background(), "userDataBase")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = store.Set(context.Background(), "userDataBase", "[]")
	assert.Error(t, err)
}

func TestRemoteStore_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(newFakeRemote("tok"))
	url := srv.URL
	srv.Close()

	store := NewRemoteStore(url, "tok", nil)
	_, err := store.Get(context.Background(), "userDataBase")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
