package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dhammakb/application/navigation"
	"dhammakb/domain/graph"
	"dhammakb/infrastructure/persistence/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testServer(t *testing.T) (*httptest.Server, map[string]string, map[string]string) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.InsertLists(ctx, []*graph.DraftList{
		{Slug: "three-jewels", Name: "Three Jewels", PaliName: "Tiratana", ItemCount: 2},
	}))
	require.NoError(t, store.InsertDhammas(ctx, []*graph.DraftDhamma{
		{Slug: "buddha", Name: "Buddha", PositionInList: 1},
		{Slug: "sangha", Name: "Sangha", PositionInList: 2},
	}))
	listIDs, err := store.ListSlugIndex(ctx)
	require.NoError(t, err)
	ids, err := store.DhammaSlugIndex(ctx)
	require.NoError(t, err)

	listID := listIDs["three-jewels"]
	require.NoError(t, store.ResolveList(ctx, listID, []string{ids["buddha"], ids["sangha"]}, nil))
	require.NoError(t, store.ResolveDhamma(ctx, ids["buddha"], listID, nil, nil, nil))
	require.NoError(t, store.ResolveDhamma(ctx, ids["sangha"], listID, nil, nil, nil))

	logger := zap.NewNop()
	router := NewRouter(store, navigation.NewEngine(store, logger), logger, true)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv, listIDs, ids
}

func get(t *testing.T, url string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := testServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestListListsEndpoint(t *testing.T) {
	srv, _, _ := testServer(t)

	status, env := get(t, srv.URL+"/api/lists")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	var data struct {
		Count int `json:"count"`
		Lists []struct {
			Slug string `json:"slug"`
			Name string `json:"name"`
		} `json:"lists"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Count)
	require.Len(t, data.Lists, 1)
	assert.Equal(t, "three-jewels", data.Lists[0].Slug)
}

func TestGetListEndpoint(t *testing.T) {
	srv, listIDs, ids := testServer(t)

	status, env := get(t, srv.URL+"/api/lists/"+listIDs["three-jewels"])
	assert.Equal(t, http.StatusOK, status)

	var list graph.List
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, "Three Jewels", list.Name)
	assert.Equal(t, []string{ids["buddha"], ids["sangha"]}, list.Children)
}

func TestGetListNotFound(t *testing.T) {
	srv, _, _ := testServer(t)

	status, env := get(t, srv.URL+"/api/lists/00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestNavigateEndpoint(t *testing.T) {
	srv, _, ids := testServer(t)

	status, env := get(t, srv.URL+"/api/navigate/"+ids["buddha"])
	assert.Equal(t, http.StatusOK, status)

	var view navigation.Response
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Buddha", view.Current.Name)
	require.NotNil(t, view.Down)
	assert.Equal(t, "Sangha", view.Down.Name)
}

func TestNavigateDistinguishesMalformedFromMissing(t *testing.T) {
	srv, _, _ := testServer(t)

	status, env := get(t, srv.URL+"/api/navigate/garbage")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ID", env.Error.Code)

	status, env = get(t, srv.URL+"/api/navigate/00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSearchEndpoint(t *testing.T) {
	srv, _, _ := testServer(t)

	status, env := get(t, srv.URL+"/api/search?q=bud")
	assert.Equal(t, http.StatusOK, status)

	var data struct {
		Count   int                  `json:"count"`
		Results []graph.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 1, data.Count)
	assert.Equal(t, "Buddha", data.Results[0].Name)
	assert.Equal(t, graph.KindDhamma, data.Results[0].Kind)

	// Pali names are searchable too.
	status, env = get(t, srv.URL+"/api/search?q=tiratana")
	assert.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 1, data.Count)
	assert.Equal(t, graph.KindList, data.Results[0].Kind)
}

func TestSearchShortQueryMatchesNothing(t *testing.T) {
	srv, _, _ := testServer(t)

	status, env := get(t, srv.URL+"/api/search?q=b")
	assert.Equal(t, http.StatusOK, status)

	var data struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Zero(t, data.Count)
}

func TestSearchRequiresQuery(t *testing.T) {
	srv, _, _ := testServer(t)

	status, env := get(t, srv.URL+"/api/search")
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "MISSING_QUERY", env.Error.Code)
}
