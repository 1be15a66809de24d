package templates

// Fixed vocabularies the templates draw from

var worldNames = []string{
	"Eldoria", "Mystara", "Arcadia", "Avaloria", "Celestria",
	"Mythaven", "Dragongate", "Sylvanthor", "Faeloria", "Stormhold",
}

var creatureTypes = []string{
	"Dragon", "Griffin", "Phoenix", "Unicorn", "Manticore",
	"Kraken", "Chimera", "Wyvern", "Basilisk", "Hydra",
}

var worldTypes = []string{
	"celestial", "medieval", "elemental", "mythical", "enchanted",
	"ancient", "chaotic", "primal", "arcane", "mystic",
}

var magicSystems = []string{
	"arcane", "elemental", "divine", "wild", "blood",
	"rune", "astral", "crystal", "shadow", "nature",
}

var creatureEpithets = []string{"Ancient", "Mystical", "Legendary", "Fabled", "Majestic"}

// Indexed by stat-1
var powerAdjectives = []string{
	"weak", "fragile", "modest", "capable", "strong",
	"powerful", "formidable", "mighty", "incredible", "godlike",
}

var intelligenceAdjectives = []string{
	"mindless", "instinctual", "simple", "basic", "average",
	"clever", "intelligent", "brilliant", "genius", "transcendent",
}

// Abilities is the pool creature abilities are sampled from
var Abilities = []string{
	"Fire breath", "Lightning strike", "Invisibility", "Flight",
	"Water breathing", "Telepathy", "Healing", "Venom", "Stone skin",
	"Night vision", "Shapeshifting", "Teleportation", "Mind control",
	"Illusion casting", "Ice manipulation", "Earth bending",
}

// Story fragments take the world name
var beginnings = []string{
	"In the ancient days of %s, when magic still flowed freely through the land,",
	"Beyond the misty mountains of %s, hidden from prying eyes,",
	"When darkness fell upon %s, threatening to consume all in its path,",
	"During the great celebration of the summer solstice in %s,",
	"After a thousand years of peace in %s, the ancient prophecy began to unfold,",
}

var middles = []string{
	"our hero embarked on a quest that would test their courage and determination.",
	"a mysterious artifact was discovered that would change everything.",
	"an unlikely alliance formed between ancient enemies.",
	"the forgotten magic began to awaken once more.",
	"the balance between order and chaos started to shift dramatically.",
}

var endings = []string{
	"Through perseverance and sacrifice, harmony was finally restored to the land.",
	"Though the cost was great, a new age of prosperity dawned for all.",
	"Victory was achieved, but the hero was forever changed by the journey.",
	"The quest succeeded beyond all expectations, revealing greater mysteries still to be solved.",
	"Peace returned to the realm, though whispers spoke of challenges yet to come.",
}

var titlePrefixes = []string{"The Legend of", "Quest for", "Tale of", "Chronicles of", "Saga of"}

var titleSuffixes = []string{"Destiny", "the Ancient Power", "the Lost Kingdom", "Redemption", "Awakening"}
