package generation

import (
	"fmt"
	"strings"

	"github.com/beantunes235/fantasyforge/internal/model"
)

// Sampling settings per kind
const (
	worldTemperature    = 0.8
	creatureTemperature = 0.8
	storyTemperature    = 0.9
	storyMaxTokens      = 1500
)

func worldPrompt(req model.WorldRequest) string {
	return fmt.Sprintf(`Generate a detailed fantasy world based on the following description:
%q

World type: %s
Magic system: %s

Please respond with a JSON object in this exact format:
{
  "name": "Fantasy world name",
  "description": "A one-paragraph description of the world",
  "type": %q,
  "magicSystem": %q,
  "geography": "Detailed description of the geography",
  "magic": "Explanation of how magic works in this world",
  "inhabitants": "Description of the main inhabitants and races",
  "history": "Brief history of the world",
  "region": "Main region or notable place",
  "regions": ["Region 1", "Region 2", "Region 3"]
}

Be creative, detailed, and imaginative. Make it feel like a rich fantasy setting.`,
		req.Description, req.Type, req.MagicSystem, req.Type, req.MagicSystem)
}

func creaturePrompt(req model.CreatureRequest, world *model.World) string {
	worldContext := ""
	if world != nil {
		worldContext = fmt.Sprintf(`This creature exists in the world of %q, which is described as: %s
Geography: %s
Magic: %s
Inhabitants: %s
`, world.Name, world.Description, world.Geography, world.Magic, world.Inhabitants)
	}

	return fmt.Sprintf(`Generate a detailed fantasy creature based on the following description:
%q

Creature type: %s
Power level (1-10): %d
Intelligence level (1-10): %d
%s
Please respond with a JSON object in this exact format:
{
  "name": "Creature name",
  "description": "A detailed description of the creature",
  "type": %q,
  "powerLevel": %d,
  "intelligence": %d,
  "speed": [Speed rating from 1-10],
  "magic": [Magic ability rating from 1-10],
  "abilities": ["Ability 1", "Ability 2", "Ability 3"]
}

Be creative, detailed, and make the creature feel unique and fantastical.`,
		req.Description, req.Type, req.PowerLevel, req.Intelligence, worldContext,
		req.Type, req.PowerLevel, req.Intelligence)
}

func storyPrompt(req model.StoryRequest, world *model.World, creatures []*model.Creature) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a fantasy story with the following elements:\nTheme: %s\nProtagonist: %s\nSetting: %s\n",
		req.Theme, req.Protagonist, req.Setting)
	if len(req.PlotElements) > 0 {
		fmt.Fprintf(&b, "Plot elements to include: %s\n", strings.Join(req.PlotElements, ", "))
	}
	if world != nil {
		fmt.Fprintf(&b, "This story is set in the world of %q, which is described as: %s\nGeography: %s\nMagic: %s\nInhabitants: %s\nHistory: %s\n",
			world.Name, world.Description, world.Geography, world.Magic, world.Inhabitants, world.History)
	}
	if len(creatures) > 0 {
		b.WriteString("Creatures in this story include:\n")
		for _, c := range creatures {
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Description)
		}
	}
	b.WriteString(`
Please respond with a JSON object in this exact format:
{
  "title": "Story title",
  "content": "The full story content with multiple paragraphs. Be descriptive and engaging."
}

Make the story creative, engaging, and approximately 500-700 words. Include dialogue and descriptive language to bring the fantasy world to life.`)
	return b.String()
}
