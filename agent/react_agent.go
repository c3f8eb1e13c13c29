package agent

// ReActAgent wraps a base Agent with ReAct-style prompting. The instruction
// set through SetSystemPrompt is appended after the ReAct preamble.
type ReActAgent struct {
	*Agent
}

// NewReActAgent creates an agent configured for ReAct prompting. Tool calls
// are always allowed.
func NewReActAgent(apiKey string, baseURL string, model string) *ReActAgent {
	base := NewAgent(apiKey, baseURL, model, true)
	base.SetSystemPrompt(DefaultReActSystemPrompt)
	base.SetPromptWrapper(ReActPromptWrapper())
	return &ReActAgent{Agent: base}
}

// SetSystemPrompt keeps the ReAct preamble in front of prompt.
func (r *ReActAgent) SetSystemPrompt(prompt string) {
	if prompt == "" {
		r.Agent.SetSystemPrompt(DefaultReActSystemPrompt)
		return
	}
	r.Agent.SetSystemPrompt(DefaultReActSystemPrompt + "\n\n" + prompt)
}
