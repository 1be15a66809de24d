// Package generation produces drafts through the external language model and
// falls back to templates once the model is unavailable.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/llm"
	"github.com/beantunes235/fantasyforge/internal/services/templates"
)

// NoAPIKeyMessage is the breaker error when no API key is configured
const NoAPIKeyMessage = "OpenAI API key not configured"

const (
	kindWorld    = "world"
	kindCreature = "creature"
	kindStory    = "story"

	sourceExternal = "external"
	sourceTemplate = "template"

	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeError    = "error"
)

var generationTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "forge_generation_total",
		Help: "Generated drafts by kind, source and outcome.",
	},
	[]string{"kind", "source", "outcome"},
)

// Gateway generates drafts, preferring the external model while the breaker allows it
type Gateway struct {
	breaker   *Breaker
	completer llm.Completer
	templates *templates.Generator
	store     templates.ContentReader
	random    random.Random
	validate  *validator.Validate
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a gateway. A nil completer behaves like a tripped breaker.
// timeout bounds each external call; zero means no bound beyond ctx.
func New(
	breaker *Breaker,
	completer llm.Completer,
	tmpl *templates.Generator,
	store templates.ContentReader,
	rnd random.Random,
	timeout time.Duration,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		breaker:   breaker,
		completer: completer,
		templates: tmpl,
		store:     store,
		random:    rnd,
		validate:  validator.New(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Status reports whether external generation is still enabled
func (g *Gateway) Status() BreakerStatus {
	return g.breaker.Status()
}

// GenerateWorld produces a world draft
func (g *Gateway) GenerateWorld(ctx context.Context, req model.WorldRequest) (model.WorldDraft, error) {
	return generate(ctx, g, kindWorld,
		func(ctx context.Context) (model.WorldDraft, error) {
			raw, err := g.completer.CompleteJSON(ctx, llm.Request{
				Kind:        kindWorld,
				Prompt:      worldPrompt(req),
				Temperature: worldTemperature,
			})
			if err != nil {
				return model.WorldDraft{}, err
			}
			var payload worldPayload
			if err := decode(raw, &payload); err != nil {
				return model.WorldDraft{}, err
			}
			draft := payload.draft(req, g.store.RandomStockImage(model.ImageLandscape))
			return draft, g.check(draft)
		},
		func(context.Context) (model.WorldDraft, error) {
			return g.templates.World(req), nil
		},
	)
}

// GenerateCreature produces a creature draft. A referenced world that exists
// is described to the model; a missing one is ignored.
func (g *Gateway) GenerateCreature(ctx context.Context, req model.CreatureRequest) (model.CreatureDraft, error) {
	return generate(ctx, g, kindCreature,
		func(ctx context.Context) (model.CreatureDraft, error) {
			world, err := g.lookupWorld(ctx, req.WorldID)
			if err != nil {
				return model.CreatureDraft{}, err
			}
			raw, err := g.completer.CompleteJSON(ctx, llm.Request{
				Kind:        kindCreature,
				Prompt:      creaturePrompt(req, world),
				Temperature: creatureTemperature,
			})
			if err != nil {
				return model.CreatureDraft{}, err
			}
			var payload creaturePayload
			if err := decode(raw, &payload); err != nil {
				return model.CreatureDraft{}, err
			}
			draft := payload.draft(req, g.random, g.store.RandomStockImage(model.ImageCreature))
			return draft, g.check(draft)
		},
		func(context.Context) (model.CreatureDraft, error) {
			return g.templates.Creature(req), nil
		},
	)
}

// GenerateStory produces a story draft featuring the referenced world and
// creatures that exist
func (g *Gateway) GenerateStory(ctx context.Context, req model.StoryRequest) (model.StoryDraft, error) {
	return generate(ctx, g, kindStory,
		func(ctx context.Context) (model.StoryDraft, error) {
			world, err := g.lookupWorld(ctx, req.WorldID)
			if err != nil {
				return model.StoryDraft{}, err
			}
			creatures, err := g.lookupCreatures(ctx, req.CreatureIDs)
			if err != nil {
				return model.StoryDraft{}, err
			}
			raw, err := g.completer.CompleteJSON(ctx, llm.Request{
				Kind:        kindStory,
				Prompt:      storyPrompt(req, world, creatures),
				Temperature: storyTemperature,
				MaxTokens:   storyMaxTokens,
			})
			if err != nil {
				return model.StoryDraft{}, err
			}
			var payload storyPayload
			if err := decode(raw, &payload); err != nil {
				return model.StoryDraft{}, err
			}
			worldName := "the realm"
			if world != nil {
				worldName = world.Name
			}
			draft := payload.draft(req, worldName)
			return draft, g.check(draft)
		},
		func(ctx context.Context) (model.StoryDraft, error) {
			return g.templates.Story(ctx, req)
		},
	)
}

// generate runs external first and switches to fallback when the breaker is
// tripped, the call hits a quota limit, or the response does not fit the schema
func generate[D any](
	ctx context.Context,
	g *Gateway,
	kind string,
	external func(context.Context) (D, error),
	fallback func(context.Context) (D, error),
) (D, error) {
	if g.completer == nil || !g.breaker.Available() {
		return fromTemplate(ctx, kind, outcomeOK, fallback)
	}

	callCtx, cancel := g.withTimeout(ctx)
	draft, err := external(callCtx)
	cancel()

	var quotaErr *llm.QuotaError
	switch {
	case err == nil:
		generationTotal.WithLabelValues(kind, sourceExternal, outcomeOK).Inc()
		return draft, nil

	case errors.Is(err, errSchemaMismatch):
		g.logger.Warn("generated response rejected, using template",
			"kind", kind,
			"error", err,
		)
		return fromTemplate(ctx, kind, outcomeFallback, fallback)

	case errors.As(err, &quotaErr):
		if g.breaker.Trip(quotaErr.Message) {
			g.logger.Error("external generation disabled, switching to templates",
				"kind", kind,
				"reason", quotaErr.Message,
			)
		}
		return fromTemplate(ctx, kind, outcomeFallback, fallback)

	default:
		generationTotal.WithLabelValues(kind, sourceExternal, outcomeError).Inc()
		g.logger.Error("external generation failed",
			"kind", kind,
			"error", err,
		)
		var zero D
		return zero, fmt.Errorf("%w: %s: %w", model.ErrGenerationFailed, kind, err)
	}
}

func fromTemplate[D any](ctx context.Context, kind, outcome string, fallback func(context.Context) (D, error)) (D, error) {
	draft, err := fallback(ctx)
	if err != nil {
		generationTotal.WithLabelValues(kind, sourceTemplate, outcomeError).Inc()
		var zero D
		return zero, fmt.Errorf("%w: %s template: %w", model.ErrGenerationFailed, kind, err)
	}
	generationTotal.WithLabelValues(kind, sourceTemplate, outcome).Inc()
	return draft, nil
}

func (g *Gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *Gateway) check(draft any) error {
	if err := g.validate.Struct(draft); err != nil {
		return fmt.Errorf("%w: %w", errSchemaMismatch, err)
	}
	return nil
}

func (g *Gateway) lookupWorld(ctx context.Context, id *model.WorldID) (*model.World, error) {
	if id == nil {
		return nil, nil
	}
	world, err := g.store.GetWorld(ctx, *id)
	if errors.Is(err, model.ErrWorldNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load world %d: %w", *id, err)
	}
	return world, nil
}

func (g *Gateway) lookupCreatures(ctx context.Context, ids []model.CreatureID) ([]*model.Creature, error) {
	var creatures []*model.Creature
	for _, id := range ids {
		creature, err := g.store.GetCreature(ctx, id)
		if errors.Is(err, model.ErrCreatureNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load creature %d: %w", id, err)
		}
		creatures = append(creatures, creature)
	}
	return creatures, nil
}
