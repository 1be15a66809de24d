package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beantunes235/fantasyforge/internal/api"
	"github.com/beantunes235/fantasyforge/internal/api/apierr"
	"github.com/beantunes235/fantasyforge/internal/api/response"
	"github.com/beantunes235/fantasyforge/internal/factory"
	"github.com/beantunes235/fantasyforge/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		CatalogService: app.CatalogService,
		UsersService:   app.UsersService,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func (ts *testServer) generateWorld(t *testing.T) response.World {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/world/generate", map[string]string{
		"description": "A canyon city carved into red sandstone",
		"type":        "desert",
		"magicSystem": "runic",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.World](t, rr)
}

func (ts *testServer) generateCreature(t *testing.T, worldID *int64) response.Creature {
	t.Helper()
	body := map[string]any{
		"description":  "A dust-winged moth the size of a horse",
		"type":         "Insect",
		"powerLevel":   4,
		"intelligence": 2,
	}
	if worldID != nil {
		body["worldId"] = *worldID
	}
	rr := ts.request(http.MethodPost, "/api/creature/generate", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.Creature](t, rr)
}

func (ts *testServer) getWorld(t *testing.T, id int64) response.World {
	t.Helper()
	rr := ts.request(http.MethodGet, fmt.Sprintf("/api/world/%d", id), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	return decode[response.World](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestStatusInDemoMode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"openai":{"available":false,"error":"OpenAI API key not configured"},"demo":true,"server":"online"}`, rr.Body.String())
}

func TestGenerateWorld(t *testing.T) {
	ts := newTestServer(t)

	world := ts.generateWorld(t)

	assert.Positive(t, world.ID)
	assert.Equal(t, "Acanyon", world.Name)
	assert.Equal(t, "desert", world.Type)
	assert.Equal(t, 0, world.CreatureCount)
	assert.Equal(t, 0, world.StoryCount)
	assert.False(t, world.Featured)
	assert.Nil(t, world.UserID)
	assert.Len(t, world.Regions, 4)
	assert.NotEmpty(t, world.ImageURL)
}

func TestGenerateWorldShortDescription(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/world/generate", map[string]string{"description": "tiny"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	body := decode[apierr.APIError](t, rr)
	assert.Equal(t, apierr.CodeInvalidRequest, body.Code)
	assert.Equal(t, "Please provide a more detailed description of your world", body.Message)

	rr = ts.request(http.MethodGet, "/api/worlds", nil)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/world/generate", `{"description": `)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetWorld(t *testing.T) {
	ts := newTestServer(t)
	world := ts.generateWorld(t)

	got := ts.getWorld(t, world.ID)
	assert.Equal(t, world, got)

	rr := ts.request(http.MethodGet, "/api/world/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeWorldNotFound, decode[apierr.APIError](t, rr).Code)

	rr = ts.request(http.MethodGet, "/api/world/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidID, decode[apierr.APIError](t, rr).Code)
}

func TestListWorldsFeaturedFilter(t *testing.T) {
	ts := newTestServer(t)
	first := ts.generateWorld(t)
	second := ts.generateWorld(t)

	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/world/%d/feature", second.ID), map[string]bool{"featured": true})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[response.World](t, rr).Featured)

	rr = ts.request(http.MethodGet, "/api/worlds?featured=true", nil)
	featured := decode[[]response.World](t, rr)
	require.Len(t, featured, 1)
	assert.Equal(t, second.ID, featured[0].ID)

	rr = ts.request(http.MethodGet, "/api/worlds?featured=false", nil)
	plain := decode[[]response.World](t, rr)
	require.Len(t, plain, 1)
	assert.Equal(t, first.ID, plain[0].ID)

	rr = ts.request(http.MethodGet, "/api/worlds", nil)
	assert.Len(t, decode[[]response.World](t, rr), 2)

	rr = ts.request(http.MethodGet, "/api/worlds/my-worlds", nil)
	assert.Len(t, decode[[]response.World](t, rr), 2)

	rr = ts.request(http.MethodGet, "/api/worlds?featured=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSaveWorld(t *testing.T) {
	ts := newTestServer(t)
	world := ts.generateWorld(t)

	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/world/%d/save", world.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	saved := decode[response.World](t, rr)
	require.NotNil(t, saved.UserID)

	rr = ts.request(http.MethodPost, "/api/world/999/save", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGenerateCreatureUpdatesWorldCount(t *testing.T) {
	ts := newTestServer(t)
	world := ts.generateWorld(t)

	creature := ts.generateCreature(t, &world.ID)

	require.NotNil(t, creature.WorldID)
	assert.Equal(t, world.ID, *creature.WorldID)
	assert.GreaterOrEqual(t, creature.Speed, 1)
	assert.LessOrEqual(t, creature.Speed, 10)
	assert.Equal(t, 1, ts.getWorld(t, world.ID).CreatureCount)

	rr := ts.request(http.MethodGet, fmt.Sprintf("/api/world/%d/creatures", world.ID), nil)
	creatures := decode[[]response.Creature](t, rr)
	require.Len(t, creatures, 1)
	assert.Equal(t, creature.ID, creatures[0].ID)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/creature/%d", creature.ID), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGenerateCreatureValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/creature/generate", map[string]any{
		"description": "A dust-winged moth", "powerLevel": 11, "intelligence": 5,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[apierr.APIError](t, rr).Message, "powerLevel")
}

func TestEmptyListsAreArrays(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/worlds", "/api/world/7/creatures", "/api/world/7/stories"} {
		rr := ts.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()), path)
	}
}

func TestSaveCreature(t *testing.T) {
	ts := newTestServer(t)
	from := ts.generateWorld(t)
	to := ts.generateWorld(t)
	creature := ts.generateCreature(t, &from.ID)
	path := fmt.Sprintf("/api/creature/%d/save", creature.ID)

	rr := ts.request(http.MethodPost, path, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeWorldIDRequired, decode[apierr.APIError](t, rr).Code)

	rr = ts.request(http.MethodPost, path, map[string]any{"worldId": 999})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/api/creature/999/save", map[string]any{"worldId": to.ID})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeCreatureNotFound, decode[apierr.APIError](t, rr).Code)

	rr = ts.request(http.MethodPost, path, map[string]any{"worldId": to.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, to.ID, *decode[response.Creature](t, rr).WorldID)

	assert.Equal(t, 0, ts.getWorld(t, from.ID).CreatureCount)
	assert.Equal(t, 1, ts.getWorld(t, to.ID).CreatureCount)
}

func TestStoryLifecycle(t *testing.T) {
	ts := newTestServer(t)
	world := ts.generateWorld(t)
	creature := ts.generateCreature(t, &world.ID)

	rr := ts.request(http.MethodPost, "/api/story/generate", map[string]any{
		"theme":        "drought",
		"protagonist":  "Kesh",
		"setting":      "the canyon markets",
		"plotElements": []string{"theft", "theft"},
		"worldId":      world.ID,
		"creatureIds":  []int64{creature.ID},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	story := decode[response.Story](t, rr)

	assert.NotEmpty(t, story.Title)
	assert.Contains(t, story.Content, creature.Name)
	assert.Equal(t, []string{"theft", "theft"}, story.PlotElements)
	assert.Equal(t, []int64{creature.ID}, story.CreatureIDs)
	assert.Equal(t, 1, ts.getWorld(t, world.ID).StoryCount)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/world/%d/stories", world.ID), nil)
	assert.Len(t, decode[[]response.Story](t, rr), 1)

	rr = ts.request(http.MethodDelete, fmt.Sprintf("/api/story/%d", story.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, ts.getWorld(t, world.ID).StoryCount)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/story/%d", story.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = ts.request(http.MethodDelete, fmt.Sprintf("/api/story/%d", story.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSaveStoryRequiresWorld(t *testing.T) {
	ts := newTestServer(t)
	world := ts.generateWorld(t)

	rr := ts.request(http.MethodPost, "/api/story/generate", map[string]any{"theme": "loss"})
	require.Equal(t, http.StatusOK, rr.Code)
	story := decode[response.Story](t, rr)
	assert.Equal(t, []int64{}, story.CreatureIDs)
	assert.Nil(t, story.WorldID)

	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/story/%d/save", story.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, fmt.Sprintf("/api/story/%d/save", story.ID), map[string]any{"worldId": world.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, ts.getWorld(t, world.ID).StoryCount)
}

func TestDeleteWorldDetachesChildren(t *testing.T) {
	ts := newTestServer(t)
	world := ts.generateWorld(t)
	creature := ts.generateCreature(t, &world.ID)

	rr := ts.request(http.MethodDelete, fmt.Sprintf("/api/world/%d", world.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/api/creature/%d", creature.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[response.Creature](t, rr).WorldID)

	rr = ts.request(http.MethodDelete, fmt.Sprintf("/api/world/%d", world.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, fmt.Sprintf("/api/creature/%d", creature.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCreateUser(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/users", map[string]string{
		"username": "alice", "password": "secret123", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
	user := decode[response.User](t, rr)
	assert.Equal(t, "alice", user.Username)

	rr = ts.request(http.MethodPost, "/api/users", map[string]string{"username": "alice", "password": "other123"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, "/api/users", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateUserDemoNameIsTaken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/users", map[string]string{"username": "demo", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/dragons", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodGet, "/api/health", nil)

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "forge_http_requests_total")
}
