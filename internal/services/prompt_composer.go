package services

import (
	"errors"
	"maps"
	"strconv"
	"strings"

	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/models"
)

// SystemInstruction is sent as the system message of every generation.
const SystemInstruction = "You are a creative pickup line generator. Generate only the pickup line, nothing else."

const emojiClause = " Include relevant emojis!"

var (
	ErrDescriptionRequired = errors.New("person description is required")
	ErrInvalidDirtiness    = errors.New("dirtiness level must be between 1 and 10")
)

// DefaultPromptTemplates returns a fresh copy of the built-in templates keyed by style.
func DefaultPromptTemplates() map[string]string {
	return map[string]string{
		constants.StylePlayful:  "Generate a playful pickup line for someone who {description}. Dirtiness level: {dirtiness}/10. Make it fun and flirty!",
		constants.StyleRomantic: "Generate a romantic pickup line for someone who {description}. Dirtiness level: {dirtiness}/10. Make it sweet and heartfelt!",
		constants.StyleFunny:    "Generate a funny pickup line for someone who {description}. Dirtiness level: {dirtiness}/10. Make it humorous and witty!",
		constants.StyleCheesy:   "Generate a cheesy pickup line for someone who {description}. Dirtiness level: {dirtiness}/10. Make it over-the-top corny!",
		constants.StyleUnhinged: "Generate an unhinged and wild pickup line for someone who {description}. Dirtiness level: {dirtiness}/10. Go crazy and be outrageous!",
	}
}

// GenerationParams are the user-facing inputs of one generation.
type GenerationParams struct {
	PersonDescription string
	DirtinessLevel    int
	Style             string
}

// WithDefaults fills in the playful style when none was given.
func (p GenerationParams) WithDefaults() GenerationParams {
	if p.Style == "" {
		p.Style = constants.DefaultStyle
	}
	return p
}

// Validate checks the description and dirtiness level. Style is not
// validated; unknown styles fall back to the playful template.
func (p GenerationParams) Validate() error {
	if strings.TrimSpace(p.PersonDescription) == "" {
		return ErrDescriptionRequired
	}
	if p.DirtinessLevel < constants.MinDirtinessLevel || p.DirtinessLevel > constants.MaxDirtinessLevel {
		return ErrInvalidDirtiness
	}
	return nil
}

// Prompt is the pair of messages sent to the provider.
type Prompt struct {
	System string
	User   string
}

// PromptComposer turns generation parameters and user settings into a prompt.
// It holds no mutable state.
type PromptComposer struct {
	templates map[string]string
}

// NewPromptComposer copies templates; the map must contain the playful style.
func NewPromptComposer(templates map[string]string) *PromptComposer {
	return &PromptComposer{templates: maps.Clone(templates)}
}

// Compose builds the prompt. A non-empty custom template in settings replaces
// the built-in ones and may use {description}, {dirtiness} and {style}.
// Missing settings count as include_emojis=true.
func (c *PromptComposer) Compose(params GenerationParams, settings *models.Settings) (Prompt, error) {
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return Prompt{}, err
	}

	dirtiness := strconv.Itoa(params.DirtinessLevel)

	var text string
	if settings.HasCustomTemplate() {
		text = strings.NewReplacer(
			"{description}", params.PersonDescription,
			"{dirtiness}", dirtiness,
			"{style}", params.Style,
		).Replace(*settings.CustomPromptTemplate)
	} else {
		text = strings.NewReplacer(
			"{description}", params.PersonDescription,
			"{dirtiness}", dirtiness,
		).Replace(c.template(params.Style))
	}

	if settings == nil || settings.IncludeEmojis {
		text += emojiClause
	}

	return Prompt{System: SystemInstruction, User: text}, nil
}

func (c *PromptComposer) template(style string) string {
	if tmpl, ok := c.templates[style]; ok {
		return tmpl
	}
	return c.templates[constants.StylePlayful]
}
