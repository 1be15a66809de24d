package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beantunes235/fantasyforge/internal/api"
	"github.com/beantunes235/fantasyforge/internal/cli"
	"github.com/beantunes235/fantasyforge/internal/factory"
	"github.com/beantunes235/fantasyforge/internal/testutil"
)

// cliRunner executes the forge command tree in-process against a test server
type cliRunner struct {
	serverURL string
}

func newCLIRunner(serverURL string) *cliRunner {
	return &cliRunner{serverURL: serverURL}
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runWithFormat("json", args...)
}

func (r *cliRunner) runWithFormat(format string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", format,
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func startTestServer(t *testing.T) (*factory.TestApp, *httptest.Server) {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		CatalogService: app.CatalogService,
		UsersService:   app.UsersService,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return app, server
}

// Response types for JSON parsing
type worldResponse struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	MagicSystem   string   `json:"magicSystem"`
	Regions       []string `json:"regions"`
	Featured      bool     `json:"featured"`
	CreatureCount int      `json:"creatureCount"`
	StoryCount    int      `json:"storyCount"`
	UserID        *int64   `json:"userId"`
}

type creatureResponse struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	PowerLevel   int      `json:"powerLevel"`
	Intelligence int      `json:"intelligence"`
	Abilities    []string `json:"abilities"`
	WorldID      *int64   `json:"worldId"`
}

type storyResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Theme        string   `json:"theme"`
	Protagonist  string   `json:"protagonist"`
	PlotElements []string `json:"plotElements"`
	WorldID      *int64   `json:"worldId"`
	CreatureIDs  []int64  `json:"creatureIds"`
}

type statusResponse struct {
	OpenAI struct {
		Available bool   `json:"available"`
		Error     string `json:"error"`
	} `json:"openai"`
	Demo   bool   `json:"demo"`
	Server string `json:"server"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthAndStatus(t *testing.T) {
	_, ts := startTestServer(t)
	forge := newCLIRunner(ts.URL)

	output, err := forge.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "ok", decode[map[string]string](t, output)["status"])

	output, err = forge.run("status")
	require.NoError(t, err, "output: %s", output)
	status := decode[statusResponse](t, output)
	assert.True(t, status.Demo)
	assert.False(t, status.OpenAI.Available)
	assert.Equal(t, "OpenAI API key not configured", status.OpenAI.Error)
	assert.Equal(t, "online", status.Server)

	output, err = forge.runWithFormat("text", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "templates (demo mode)")
	assert.Contains(t, output, "OpenAI API key not configured")
}

func TestCLI_WorldCommands(t *testing.T) {
	_, ts := startTestServer(t)
	forge := newCLIRunner(ts.URL)

	output, err := forge.run("world", "generate",
		"--description", "A volcanic archipelago ruled by fire spirits",
		"--type", "elemental",
		"--magic-system", "runic")
	require.NoError(t, err, "output: %s", output)
	world := decode[worldResponse](t, output)
	assert.NotZero(t, world.ID)
	assert.Equal(t, "elemental", world.Type)
	assert.Equal(t, "runic", world.MagicSystem)
	assert.Len(t, world.Regions, 4)
	assert.Nil(t, world.UserID)

	output, err = forge.run("world", "get", fmt.Sprint(world.ID))
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, world.Name, decode[worldResponse](t, output).Name)

	output, err = forge.run("world", "save", fmt.Sprint(world.ID))
	require.NoError(t, err, "output: %s", output)
	assert.NotNil(t, decode[worldResponse](t, output).UserID)

	output, err = forge.run("world", "mine")
	require.NoError(t, err, "output: %s", output)
	mine := decode[[]worldResponse](t, output)
	require.Len(t, mine, 1)
	assert.Equal(t, world.ID, mine[0].ID)

	output, err = forge.run("world", "feature", fmt.Sprint(world.ID))
	require.NoError(t, err, "output: %s", output)
	assert.True(t, decode[worldResponse](t, output).Featured)

	output, err = forge.run("world", "list", "--featured", "true")
	require.NoError(t, err, "output: %s", output)
	assert.Len(t, decode[[]worldResponse](t, output), 1)

	output, err = forge.run("world", "feature", fmt.Sprint(world.ID), "--off")
	require.NoError(t, err, "output: %s", output)
	assert.False(t, decode[worldResponse](t, output).Featured)

	output, err = forge.run("world", "list", "--featured", "true")
	require.NoError(t, err, "output: %s", output)
	assert.Empty(t, decode[[]worldResponse](t, output))

	output, err = forge.run("world", "delete", fmt.Sprint(world.ID))
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, fmt.Sprintf("Deleted world %d", world.ID), decode[messageResponse](t, output).Message)

	output, err = forge.run("world", "list")
	require.NoError(t, err, "output: %s", output)
	assert.Empty(t, decode[[]worldResponse](t, output))
}

func TestCLI_CreatureAndStoryFlow(t *testing.T) {
	_, ts := startTestServer(t)
	forge := newCLIRunner(ts.URL)

	output, err := forge.run("world", "generate", "--description", "A frozen kingdom beneath a sleeping aurora")
	require.NoError(t, err, "output: %s", output)
	world := decode[worldResponse](t, output)
	worldArg := fmt.Sprint(world.ID)

	output, err = forge.run("creature", "generate",
		"--description", "A wolf made of drifting snow and starlight",
		"--type", "spirit",
		"--power", "7",
		"--intelligence", "4",
		"--world", worldArg)
	require.NoError(t, err, "output: %s", output)
	creature := decode[creatureResponse](t, output)
	assert.Equal(t, "spirit", creature.Type)
	assert.Equal(t, 7, creature.PowerLevel)
	assert.Equal(t, 4, creature.Intelligence)
	assert.NotEmpty(t, creature.Abilities)
	require.NotNil(t, creature.WorldID)
	assert.Equal(t, world.ID, *creature.WorldID)

	output, err = forge.run("creature", "list", worldArg)
	require.NoError(t, err, "output: %s", output)
	assert.Len(t, decode[[]creatureResponse](t, output), 1)

	output, err = forge.run("story", "generate",
		"--theme", "redemption",
		"--protagonist", "Mira",
		"--plot", "a broken oath",
		"--plot", "a frozen crown",
		"--world", worldArg,
		"--creature", fmt.Sprint(creature.ID))
	require.NoError(t, err, "output: %s", output)
	story := decode[storyResponse](t, output)
	assert.Equal(t, "redemption", story.Theme)
	assert.Equal(t, "Mira", story.Protagonist)
	assert.Equal(t, []string{"a broken oath", "a frozen crown"}, story.PlotElements)
	assert.Equal(t, []int64{creature.ID}, story.CreatureIDs)

	output, err = forge.run("story", "list", worldArg)
	require.NoError(t, err, "output: %s", output)
	assert.Len(t, decode[[]storyResponse](t, output), 1)

	output, err = forge.run("world", "get", worldArg)
	require.NoError(t, err, "output: %s", output)
	counted := decode[worldResponse](t, output)
	assert.Equal(t, 1, counted.CreatureCount)
	assert.Equal(t, 1, counted.StoryCount)

	// a second world to move the story to
	output, err = forge.run("world", "generate", "--description", "An endless library floating in the void")
	require.NoError(t, err, "output: %s", output)
	other := decode[worldResponse](t, output)

	output, err = forge.run("story", "save", fmt.Sprint(story.ID), "--world", fmt.Sprint(other.ID))
	require.NoError(t, err, "output: %s", output)
	moved := decode[storyResponse](t, output)
	require.NotNil(t, moved.WorldID)
	assert.Equal(t, other.ID, *moved.WorldID)

	output, err = forge.run("creature", "delete", fmt.Sprint(creature.ID))
	require.NoError(t, err, "output: %s", output)

	output, err = forge.run("creature", "list", worldArg)
	require.NoError(t, err, "output: %s", output)
	assert.Empty(t, decode[[]creatureResponse](t, output))
}

func TestCLI_TextOutput(t *testing.T) {
	_, ts := startTestServer(t)
	forge := newCLIRunner(ts.URL)

	output, err := forge.runWithFormat("text", "world", "generate",
		"--description", "A desert of glass dunes and singing winds",
		"--type", "desert")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Type: desert")
	assert.Contains(t, output, "Geography:")

	output, err = forge.runWithFormat("text", "world", "list")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "(desert)")

	output, err = forge.runWithFormat("text", "creature", "list", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "No creatures")
}

func TestCLI_UserCommands(t *testing.T) {
	_, ts := startTestServer(t)
	forge := newCLIRunner(ts.URL)

	output, err := forge.run("user", "create", "--username", "alice", "--password", "secret123", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)
	user := decode[map[string]any](t, output)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	output, err = forge.run("user", "create", "--username", "alice", "--password", "secret123")
	require.Error(t, err)
	assert.Contains(t, output, "USERNAME_EXISTS")
}

func TestCLI_ErrorHandling(t *testing.T) {
	_, ts := startTestServer(t)
	forge := newCLIRunner(ts.URL)

	// too-short description
	output, err := forge.run("world", "generate", "--description", "tiny")
	require.Error(t, err)
	assert.Contains(t, output, "more detailed description")

	output, err = forge.run("world", "get", "999")
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	output, err = forge.run("creature", "save", "1", "--world", "1")
	require.Error(t, err)
	assert.Contains(t, output, "CREATURE_NOT_FOUND")

	_, err = forge.run("story", "get", "abc")
	assert.Error(t, err)

	_, err = forge.run("world", "list", "--featured", "maybe")
	assert.Error(t, err)

	_, err = forge.run("--output", "yaml", "health")
	assert.Error(t, err)
}
