package httpadapter

import "net/http"

type AgentCapabilities struct {
	Streaming bool `json:"streaming"`
}

type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples,omitempty"`
}

type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	DefaultInputModes  []string          `json:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes"`
	Skills             []AgentSkill      `json:"skills"`
}

func (rt *Router) agentCard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, AgentCard{
		Name:               "Wiki Agent",
		Description:        "Answers questions using the corporate wiki as its knowledge source.",
		URL:                rt.cfg.BaseURL,
		Version:            "1.0.0",
		Capabilities:       AgentCapabilities{Streaming: true},
		DefaultInputModes:  []string{"text", "text/plain"},
		DefaultOutputModes: []string{"text", "text/plain"},
		Skills: []AgentSkill{
			{
				ID:          "wiki-search",
				Name:        "Wiki search",
				Description: "Finds relevant wiki pages and answers strictly from their contents.",
				Tags:        []string{"wiki", "search", "qa"},
				Examples:    []string{"How many days per week can I work remotely?"},
			},
		},
	})
}
