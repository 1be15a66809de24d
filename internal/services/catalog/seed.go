package catalog

import (
	"context"
	"fmt"

	"github.com/beantunes235/fantasyforge/internal/model"
)

var sampleWorlds = []model.WorldDraft{
	{
		Name:        "Aerithia",
		Description: "A magical realm where floating islands drift among luminous clouds, inhabited by beings that can shape-shift between human and animal forms.",
		Type:        "celestial",
		MagicSystem: "arcane",
		Geography:   "Floating islands connected by light bridges and air currents, surrounded by luminous clouds",
		Magic:       "Aether magic that allows control of wind, light, and gravity",
		Inhabitants: "Shape-shifting beings with both human and animal forms",
		History:     "Ancient civilization that ascended to the skies during the Great Cataclysm",
		Region:      "The Floating Isles of Aerithia",
		Regions:     []string{"Crystal Spire Islands", "Cloud Wilds", "The Luminous Abyss"},
		ImageURL:    "https://images.unsplash.com/photo-1518709268805-4e9042af9f23?ixlib=rb-4.0.3&auto=format&fit=crop&w=1740&q=80",
	},
	{
		Name:        "Sylvaneth",
		Description: "An ancient forest realm where trees whisper secrets and sentient plants rule.",
		Type:        "medieval",
		MagicSystem: "elemental",
		Geography:   "Vast ancient forests with towering trees, hidden glades, and mystical groves",
		Magic:       "Nature magic that allows communication with plants and animals",
		Inhabitants: "Plant-like humanoids, forest spirits, and woodland creatures",
		History:     "Born from the tears of the Earth Mother, Sylvaneth has remained unchanged for millennia",
		Region:      "The Great Verdant Expanse",
		Regions:     []string{"Whispering Woods", "Ancient Grove", "Crystal Pools"},
		ImageURL:    "https://images.unsplash.com/photo-1604519029005-5a309bb68f21?ixlib=rb-4.0.3&auto=format&fit=crop&w=1064&q=80",
	},
	{
		Name:        "Ignarium",
		Description: "A volcanic kingdom where fire elementals forge artifacts of incredible power.",
		Type:        "elemental",
		MagicSystem: "elemental",
		Geography:   "Volcanic islands, rivers of lava, and obsidian mountains",
		Magic:       "Fire magic that allows the manipulation of heat and flame",
		Inhabitants: "Fire elementals, salamanders, and heat-resistant humanoids",
		History:     "Formed in the Great Sundering when the world split open, revealing the molten core",
		Region:      "The Blazing Archipelago",
		Regions:     []string{"Magma Falls", "Obsidian Peaks", "Ember Isles"},
		ImageURL:    "https://images.unsplash.com/photo-1579548122080-c35fd6820ecb?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80",
	},
}

// sampleCreature lives in the first sample world, which is also featured
var sampleCreature = model.CreatureDraft{
	Name:         "Zephyr Felinus",
	Description:  "A majestic winged feline with iridescent feathers that shimmer in the light of Aerithia's twin moons. Its paws can manipulate air currents.",
	Type:         "mythical",
	PowerLevel:   7,
	Intelligence: 8,
	Speed:        9,
	Magic:        7,
	Abilities:    []string{"Wind manipulation", "Flight", "Telepathy with other creatures"},
	ImageURL:     "https://images.unsplash.com/photo-1568283096533-078a38221368?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80",
}

// SeedSamples stores the sample worlds and creature when no world exists yet.
// It reports whether anything was created.
func (s *Service) SeedSamples(ctx context.Context) (bool, error) {
	existing, err := s.store.ListWorlds(ctx, model.WorldFilter{})
	if err != nil {
		return false, fmt.Errorf("list worlds: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	for i, draft := range sampleWorlds {
		world, err := s.store.CreateWorld(ctx, draft)
		if err != nil {
			return false, fmt.Errorf("seed world %s: %w", draft.Name, err)
		}
		if i > 0 {
			continue
		}

		featured := true
		if _, err := s.store.UpdateWorld(ctx, world.ID, model.WorldPatch{Featured: &featured}); err != nil {
			return false, fmt.Errorf("feature world %s: %w", draft.Name, err)
		}
		creature := sampleCreature
		creature.Abilities = append([]string(nil), sampleCreature.Abilities...)
		creature.WorldID = &world.ID
		if _, err := s.store.CreateCreature(ctx, creature); err != nil {
			return false, fmt.Errorf("seed creature %s: %w", creature.Name, err)
		}
	}

	s.logger.Info("sample data seeded", "worlds", len(sampleWorlds))
	return true, nil
}
