// Package storagetest holds the behavioural suite every ContentStore
// implementation must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/beantunes235/fantasyforge/internal/dependencies/clock"
	"github.com/beantunes235/fantasyforge/internal/dependencies/mocks"
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/storage"
	"github.com/beantunes235/fantasyforge/internal/storage/stock"
)

// StoreFactory builds an empty store for a single test
type StoreFactory func(t *testing.T, clk clock.Clock, rnd random.Random) storage.ContentStore

// Suite exercises the ContentStore contract against a store built by NewStore
type Suite struct {
	suite.Suite

	NewStore StoreFactory

	store storage.ContentStore
	clock *mocks.MockClock
	ctx   context.Context
}

// Now is the fixed time the suite's clock reports
var Now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(Now)
	s.store = s.NewStore(s.T(), s.clock, random.New())
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

// WorldDraft returns a complete world draft named name
func WorldDraft(name string) model.WorldDraft {
	return model.WorldDraft{
		Name:        name,
		Description: "A world of floating islands",
		Type:        "celestial",
		MagicSystem: "arcane",
		Geography:   "Sky islands",
		Magic:       "Ley lines",
		Inhabitants: "Sky folk",
		History:     "Ancient wars",
		Region:      "The central region known as the " + name + " Heartlands",
		Regions:     []string{"Northern " + name, name + " Forests"},
		ImageURL:    "https://example.com/world.jpg",
	}
}

// CreatureDraft returns a complete creature draft attached to worldID
func CreatureDraft(name string, worldID *model.WorldID) model.CreatureDraft {
	return model.CreatureDraft{
		Name:         name,
		Description:  "A winged beast",
		Type:         "Griffin",
		PowerLevel:   7,
		Intelligence: 6,
		Speed:        5,
		Magic:        4,
		Abilities:    []string{"Flight", "Night vision"},
		ImageURL:     "https://example.com/creature.jpg",
		WorldID:      worldID,
	}
}

// StoryDraft returns a complete story draft attached to worldID
func StoryDraft(title string, worldID *model.WorldID, creatures ...model.CreatureID) model.StoryDraft {
	return model.StoryDraft{
		Title:        title,
		Content:      "Once upon a time",
		Theme:        "Redemption",
		Protagonist:  "Kael",
		Setting:      "Sky Citadel",
		PlotElements: []string{"betrayal", "storm", "betrayal"},
		WorldID:      worldID,
		CreatureIDs:  creatures,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func (s *Suite) createWorld(name string) *model.World {
	w, err := s.store.CreateWorld(s.ctx, WorldDraft(name))
	s.Require().NoError(err)
	return w
}

func (s *Suite) requireCounts(id model.WorldID, creatures, stories int) {
	w, err := s.store.GetWorld(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(creatures, w.CreatureCount, "creature count")
	s.Equal(stories, w.StoryCount, "story count")
}

// Stock image tests

func (s *Suite) TestRandomStockImage() {
	for _, category := range []model.ImageCategory{model.ImageLandscape, model.ImageCreature, model.ImageCharacter} {
		s.Contains(stock.List(category), s.store.RandomStockImage(category))
	}
}

// User tests

func (s *Suite) TestCreateAndGetUser() {
	user, err := s.store.CreateUser(s.ctx, model.NewUser{Username: "alice", PasswordHash: "hash", Email: "alice@example.com"})
	s.Require().NoError(err)
	s.NotZero(user.ID)
	s.True(user.CreatedAt.Equal(Now))

	byID, err := s.store.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)
	s.Equal("hash", byID.PasswordHash)

	byName, err := s.store.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)
	s.Equal("alice@example.com", byName.Email)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.store.GetUser(s.ctx, 9999)
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.store.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestCreateUserDuplicateUsername() {
	_, err := s.store.CreateUser(s.ctx, model.NewUser{Username: "alice", PasswordHash: "hash"})
	s.Require().NoError(err)

	_, err = s.store.CreateUser(s.ctx, model.NewUser{Username: "alice", PasswordHash: "other"})
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *Suite) TestCreateUserDuplicateEmail() {
	_, err := s.store.CreateUser(s.ctx, model.NewUser{Username: "alice", PasswordHash: "hash", Email: "same@example.com"})
	s.Require().NoError(err)

	_, err = s.store.CreateUser(s.ctx, model.NewUser{Username: "bob", PasswordHash: "hash", Email: "same@example.com"})
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *Suite) TestCreateUsersWithoutEmail() {
	_, err := s.store.CreateUser(s.ctx, model.NewUser{Username: "alice", PasswordHash: "hash"})
	s.Require().NoError(err)

	_, err = s.store.CreateUser(s.ctx, model.NewUser{Username: "bob", PasswordHash: "hash"})
	s.NoError(err)
}

// World tests

func (s *Suite) TestCreateWorld() {
	world := s.createWorld("Eldoria")

	s.NotZero(world.ID)
	s.Equal("Eldoria", world.Name)
	s.Equal([]string{"Northern Eldoria", "Eldoria Forests"}, world.Regions)
	s.Zero(world.CreatureCount)
	s.Zero(world.StoryCount)
	s.False(world.Featured)
	s.Nil(world.OwnerUserID)
	s.True(world.CreatedAt.Equal(Now))

	got, err := s.store.GetWorld(s.ctx, world.ID)
	s.Require().NoError(err)
	s.Equal(world.WorldDraft, got.WorldDraft)
}

func (s *Suite) TestWorldIDsAreUnique() {
	a := s.createWorld("A")
	b := s.createWorld("B")
	s.NotEqual(a.ID, b.ID)
}

func (s *Suite) TestGetWorldNotFound() {
	_, err := s.store.GetWorld(s.ctx, 9999)
	s.ErrorIs(err, model.ErrWorldNotFound)
}

func (s *Suite) TestGetWorldReturnsCopy() {
	world := s.createWorld("Eldoria")
	world.Regions[0] = "changed"
	world.Name = "changed"

	got, err := s.store.GetWorld(s.ctx, world.ID)
	s.Require().NoError(err)
	s.Equal("Eldoria", got.Name)
	s.Equal("Northern Eldoria", got.Regions[0])
}

func (s *Suite) TestListWorldsOrderedByID() {
	first := s.createWorld("First")
	second := s.createWorld("Second")
	third := s.createWorld("Third")

	worlds, err := s.store.ListWorlds(s.ctx, model.WorldFilter{})
	s.Require().NoError(err)
	s.Require().Len(worlds, 3)
	s.Equal([]model.WorldID{first.ID, second.ID, third.ID}, []model.WorldID{worlds[0].ID, worlds[1].ID, worlds[2].ID})
}

func (s *Suite) TestListWorldsEmpty() {
	worlds, err := s.store.ListWorlds(s.ctx, model.WorldFilter{})
	s.Require().NoError(err)
	s.Empty(worlds)
}

func (s *Suite) TestListWorldsFilters() {
	user, err := s.store.CreateUser(s.ctx, model.NewUser{Username: "owner", PasswordHash: "hash"})
	s.Require().NoError(err)

	featured := s.createWorld("Featured")
	_, err = s.store.UpdateWorld(s.ctx, featured.ID, model.WorldPatch{Featured: ptr(true)})
	s.Require().NoError(err)
	owned := s.createWorld("Owned")
	_, err = s.store.UpdateWorld(s.ctx, owned.ID, model.WorldPatch{OwnerUserID: &user.ID})
	s.Require().NoError(err)
	s.createWorld("Plain")

	onlyFeatured, err := s.store.ListWorlds(s.ctx, model.WorldFilter{Featured: ptr(true)})
	s.Require().NoError(err)
	s.Require().Len(onlyFeatured, 1)
	s.Equal(featured.ID, onlyFeatured[0].ID)

	notFeatured, err := s.store.ListWorlds(s.ctx, model.WorldFilter{Featured: ptr(false)})
	s.Require().NoError(err)
	s.Len(notFeatured, 2)

	mine, err := s.store.ListWorlds(s.ctx, model.WorldFilter{OwnerUserID: &user.ID})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(owned.ID, mine[0].ID)
	s.Require().NotNil(mine[0].OwnerUserID)
	s.Equal(user.ID, *mine[0].OwnerUserID)
}

func (s *Suite) TestUpdateWorldMergesFields() {
	world := s.createWorld("Eldoria")
	s.clock.Advance(time.Hour)

	updated, err := s.store.UpdateWorld(s.ctx, world.ID, model.WorldPatch{
		Name:    ptr("Mystara"),
		Regions: []string{"Only Region"},
	})
	s.Require().NoError(err)
	s.Equal(world.ID, updated.ID)
	s.Equal("Mystara", updated.Name)
	s.Equal([]string{"Only Region"}, updated.Regions)
	s.Equal(world.Description, updated.Description)
	s.True(updated.CreatedAt.Equal(Now))

	got, err := s.store.GetWorld(s.ctx, world.ID)
	s.Require().NoError(err)
	s.Equal("Mystara", got.Name)
}

func (s *Suite) TestUpdateWorldNotFound() {
	_, err := s.store.UpdateWorld(s.ctx, 9999, model.WorldPatch{Name: ptr("x")})
	s.ErrorIs(err, model.ErrWorldNotFound)
}

func (s *Suite) TestDeleteWorld() {
	world := s.createWorld("Eldoria")

	deleted, err := s.store.DeleteWorld(s.ctx, world.ID)
	s.Require().NoError(err)
	s.True(deleted)

	_, err = s.store.GetWorld(s.ctx, world.ID)
	s.ErrorIs(err, model.ErrWorldNotFound)

	deleted, err = s.store.DeleteWorld(s.ctx, world.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *Suite) TestDeleteWorldDetachesChildren() {
	world := s.createWorld("Eldoria")
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Zephyr", &world.ID))
	s.Require().NoError(err)
	story, err := s.store.CreateStory(s.ctx, StoryDraft("Tale", &world.ID, creature.ID))
	s.Require().NoError(err)

	_, err = s.store.DeleteWorld(s.ctx, world.ID)
	s.Require().NoError(err)

	gotCreature, err := s.store.GetCreature(s.ctx, creature.ID)
	s.Require().NoError(err)
	s.Nil(gotCreature.WorldID)

	gotStory, err := s.store.GetStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Nil(gotStory.WorldID)
	s.Equal([]model.CreatureID{creature.ID}, gotStory.CreatureIDs)

	creatures, err := s.store.ListCreatures(s.ctx, model.ChildFilter{WorldID: &world.ID})
	s.Require().NoError(err)
	s.Empty(creatures)
}

// Creature tests

func (s *Suite) TestCreateCreatureIncrementsWorldCount() {
	world := s.createWorld("Eldoria")

	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Zephyr", &world.ID))
	s.Require().NoError(err)
	s.NotZero(creature.ID)
	s.Require().NotNil(creature.WorldID)
	s.Equal(world.ID, *creature.WorldID)
	s.Equal([]string{"Flight", "Night vision"}, creature.Abilities)
	s.True(creature.CreatedAt.Equal(Now))

	s.requireCounts(world.ID, 1, 0)
}

func (s *Suite) TestCreateCreatureWithoutWorld() {
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Loner", nil))
	s.Require().NoError(err)
	s.Nil(creature.WorldID)
}

func (s *Suite) TestCreateCreatureWithMissingWorld() {
	missing := model.WorldID(9999)
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Orphan", &missing))
	s.Require().NoError(err)

	got, err := s.store.GetCreature(s.ctx, creature.ID)
	s.Require().NoError(err)
	s.Equal("Orphan", got.Name)
}

func (s *Suite) TestGetCreatureNotFound() {
	_, err := s.store.GetCreature(s.ctx, 9999)
	s.ErrorIs(err, model.ErrCreatureNotFound)
}

func (s *Suite) TestListCreaturesByWorld() {
	a := s.createWorld("A")
	b := s.createWorld("B")
	first, err := s.store.CreateCreature(s.ctx, CreatureDraft("First", &a.ID))
	s.Require().NoError(err)
	_, err = s.store.CreateCreature(s.ctx, CreatureDraft("Other", &b.ID))
	s.Require().NoError(err)
	second, err := s.store.CreateCreature(s.ctx, CreatureDraft("Second", &a.ID))
	s.Require().NoError(err)

	inA, err := s.store.ListCreatures(s.ctx, model.ChildFilter{WorldID: &a.ID})
	s.Require().NoError(err)
	s.Require().Len(inA, 2)
	s.Equal(first.ID, inA[0].ID)
	s.Equal(second.ID, inA[1].ID)

	all, err := s.store.ListCreatures(s.ctx, model.ChildFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *Suite) TestUpdateCreatureMovesCounters() {
	a := s.createWorld("A")
	b := s.createWorld("B")
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Nomad", &a.ID))
	s.Require().NoError(err)

	updated, err := s.store.UpdateCreature(s.ctx, creature.ID, model.CreaturePatch{WorldID: &b.ID})
	s.Require().NoError(err)
	s.Require().NotNil(updated.WorldID)
	s.Equal(b.ID, *updated.WorldID)
	s.Equal(creature.Name, updated.Name)

	s.requireCounts(a.ID, 0, 0)
	s.requireCounts(b.ID, 1, 0)
}

func (s *Suite) TestUpdateCreatureSameWorldKeepsCounters() {
	world := s.createWorld("A")
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Stay", &world.ID))
	s.Require().NoError(err)

	_, err = s.store.UpdateCreature(s.ctx, creature.ID, model.CreaturePatch{WorldID: &world.ID, Name: ptr("Stayed")})
	s.Require().NoError(err)

	s.requireCounts(world.ID, 1, 0)
}

func (s *Suite) TestUpdateCreatureAttachesUnassigned() {
	world := s.createWorld("A")
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Stray", nil))
	s.Require().NoError(err)

	_, err = s.store.UpdateCreature(s.ctx, creature.ID, model.CreaturePatch{WorldID: &world.ID})
	s.Require().NoError(err)

	s.requireCounts(world.ID, 1, 0)
}

func (s *Suite) TestUpdateCreatureToMissingWorldIsRejected() {
	world := s.createWorld("A")
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Loyal", &world.ID))
	s.Require().NoError(err)
	gone := s.createWorld("Gone")
	found, err := s.store.DeleteWorld(s.ctx, gone.ID)
	s.Require().NoError(err)
	s.Require().True(found)

	_, err = s.store.UpdateCreature(s.ctx, creature.ID, model.CreaturePatch{WorldID: &gone.ID, Name: ptr("Traitor")})
	s.ErrorIs(err, model.ErrWorldNotFound)

	stored, err := s.store.GetCreature(s.ctx, creature.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.WorldID)
	s.Equal(world.ID, *stored.WorldID)
	s.Equal("Loyal", stored.Name)
	s.requireCounts(world.ID, 1, 0)
}

func (s *Suite) TestUpdateCreatureNotFound() {
	_, err := s.store.UpdateCreature(s.ctx, 9999, model.CreaturePatch{Name: ptr("x")})
	s.ErrorIs(err, model.ErrCreatureNotFound)
}

func (s *Suite) TestDeleteCreatureDecrementsWorldCount() {
	world := s.createWorld("A")
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Doomed", &world.ID))
	s.Require().NoError(err)
	s.requireCounts(world.ID, 1, 0)

	deleted, err := s.store.DeleteCreature(s.ctx, creature.ID)
	s.Require().NoError(err)
	s.True(deleted)
	s.requireCounts(world.ID, 0, 0)

	deleted, err = s.store.DeleteCreature(s.ctx, creature.ID)
	s.Require().NoError(err)
	s.False(deleted)
	s.requireCounts(world.ID, 0, 0)
}

// Story tests

func (s *Suite) TestCreateStoryIncrementsWorldCount() {
	world := s.createWorld("A")
	creature, err := s.store.CreateCreature(s.ctx, CreatureDraft("Guide", &world.ID))
	s.Require().NoError(err)

	story, err := s.store.CreateStory(s.ctx, StoryDraft("Tale", &world.ID, creature.ID))
	s.Require().NoError(err)
	s.NotZero(story.ID)
	s.Equal([]string{"betrayal", "storm", "betrayal"}, story.PlotElements)
	s.Equal([]model.CreatureID{creature.ID}, story.CreatureIDs)
	s.True(story.CreatedAt.Equal(Now))

	s.requireCounts(world.ID, 1, 1)
}

func (s *Suite) TestCreateStoryWithoutReferences() {
	story, err := s.store.CreateStory(s.ctx, StoryDraft("Lonely", nil))
	s.Require().NoError(err)

	got, err := s.store.GetStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Nil(got.WorldID)
	s.Empty(got.CreatureIDs)
}

func (s *Suite) TestGetStoryNotFound() {
	_, err := s.store.GetStory(s.ctx, 9999)
	s.ErrorIs(err, model.ErrStoryNotFound)
}

func (s *Suite) TestListStoriesByWorld() {
	a := s.createWorld("A")
	b := s.createWorld("B")
	_, err := s.store.CreateStory(s.ctx, StoryDraft("In A", &a.ID))
	s.Require().NoError(err)
	_, err = s.store.CreateStory(s.ctx, StoryDraft("In B", &b.ID))
	s.Require().NoError(err)

	inB, err := s.store.ListStories(s.ctx, model.ChildFilter{WorldID: &b.ID})
	s.Require().NoError(err)
	s.Require().Len(inB, 1)
	s.Equal("In B", inB[0].Title)
}

func (s *Suite) TestUpdateStoryMovesCounters() {
	a := s.createWorld("A")
	b := s.createWorld("B")
	story, err := s.store.CreateStory(s.ctx, StoryDraft("Journey", &a.ID))
	s.Require().NoError(err)

	updated, err := s.store.UpdateStory(s.ctx, story.ID, model.StoryPatch{WorldID: &b.ID})
	s.Require().NoError(err)
	s.Require().NotNil(updated.WorldID)
	s.Equal(b.ID, *updated.WorldID)
	s.Equal(story.Content, updated.Content)

	s.requireCounts(a.ID, 0, 0)
	s.requireCounts(b.ID, 0, 1)
}

func (s *Suite) TestUpdateStoryToMissingWorldIsRejected() {
	world := s.createWorld("A")
	story, err := s.store.CreateStory(s.ctx, StoryDraft("Anchored", &world.ID))
	s.Require().NoError(err)

	missing := model.WorldID(9999)
	_, err = s.store.UpdateStory(s.ctx, story.ID, model.StoryPatch{WorldID: &missing})
	s.ErrorIs(err, model.ErrWorldNotFound)

	stored, err := s.store.GetStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.WorldID)
	s.Equal(world.ID, *stored.WorldID)
	s.requireCounts(world.ID, 0, 1)
}

func (s *Suite) TestUpdateStoryNotFound() {
	_, err := s.store.UpdateStory(s.ctx, 9999, model.StoryPatch{Title: ptr("x")})
	s.ErrorIs(err, model.ErrStoryNotFound)
}

func (s *Suite) TestDeleteStoryDecrementsWorldCount() {
	world := s.createWorld("A")
	story, err := s.store.CreateStory(s.ctx, StoryDraft("Short", &world.ID))
	s.Require().NoError(err)

	deleted, err := s.store.DeleteStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.True(deleted)
	s.requireCounts(world.ID, 0, 0)

	deleted, err = s.store.DeleteStory(s.ctx, story.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *Suite) TestCountersMatchChildrenAfterMixedOperations() {
	a := s.createWorld("A")
	b := s.createWorld("B")

	c1, err := s.store.CreateCreature(s.ctx, CreatureDraft("One", &a.ID))
	s.Require().NoError(err)
	_, err = s.store.CreateCreature(s.ctx, CreatureDraft("Two", &a.ID))
	s.Require().NoError(err)
	st, err := s.store.CreateStory(s.ctx, StoryDraft("Saga", &a.ID))
	s.Require().NoError(err)

	_, err = s.store.UpdateCreature(s.ctx, c1.ID, model.CreaturePatch{WorldID: &b.ID})
	s.Require().NoError(err)
	_, err = s.store.DeleteStory(s.ctx, st.ID)
	s.Require().NoError(err)

	for _, w := range []*model.World{a, b} {
		creatures, err := s.store.ListCreatures(s.ctx, model.ChildFilter{WorldID: &w.ID})
		s.Require().NoError(err)
		stories, err := s.store.ListStories(s.ctx, model.ChildFilter{WorldID: &w.ID})
		s.Require().NoError(err)
		s.requireCounts(w.ID, len(creatures), len(stories))
	}
}
