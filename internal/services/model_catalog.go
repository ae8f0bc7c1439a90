package services

// ModelInfo describes a model offered in the settings UI.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultModelCatalog returns the OpenRouter models offered to users.
func DefaultModelCatalog() []ModelInfo {
	return []ModelInfo{
		{
			ID:          "meta-llama/llama-3.2-3b-instruct:free",
			Name:        "Llama 3.2 3B (Free)",
			Description: "Fast and free model, good for basic pickup lines",
		},
		{
			ID:          "nousresearch/hermes-3-llama-3.1-405b:free",
			Name:        "Hermes 3 Llama 405B (Free)",
			Description: "Powerful free model, great for creative content",
		},
		{
			ID:          "google/gemini-flash-1.5",
			Name:        "Gemini Flash 1.5",
			Description: "Fast Google model with good creativity",
		},
		{
			ID:          "anthropic/claude-3-haiku",
			Name:        "Claude 3 Haiku",
			Description: "Balanced model with good language understanding",
		},
		{
			ID:          "openai/gpt-4o-mini",
			Name:        "GPT-4o Mini",
			Description: "OpenAI model with excellent creativity",
		},
		{
			ID:          "mistralai/mistral-large",
			Name:        "Mistral Large",
			Description: "Unhinged model, perfect for wild pickup lines",
		},
	}
}
