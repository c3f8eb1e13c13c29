// Package assistant wires the weather tools and instruction into an agent.
package assistant

import (
	"go.uber.org/zap"

	"github.com/myproject/weather-agent/agent"
	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/agent/tools/buildin"
)

// Tools returns the assistant's tools in the order they are offered to the
// model.
func Tools(locator buildin.Locator, forecaster buildin.Forecaster) []tools.Tool {
	return []tools.Tool{
		buildin.NewGetUserLocationTool(locator),
		buildin.NewGetCurrentWeatherTool(forecaster),
		buildin.NewGetDailyForecastTool(forecaster),
	}
}

// New builds the weather assistant described by cfg. cfg.SystemPrompt, when
// set, is appended to the built-in instruction.
func New(cfg *agent.AgentConfig, locator buildin.Locator, forecaster buildin.Forecaster, logger *zap.SugaredLogger) *agent.Agent {
	instruction := Instruction
	if cfg.SystemPrompt != "" {
		instruction += "\n\n" + cfg.SystemPrompt
	}

	var a *agent.Agent
	if cfg.ReAct.Enabled {
		r := agent.NewReActAgent(cfg.APIKey, cfg.BaseURL, cfg.Model)
		r.SetSystemPrompt(instruction)
		a = r.Agent
	} else {
		a = agent.NewAgent(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.AllowTools)
		a.SetSystemPrompt(instruction)
	}
	a.SetName(Name)
	a.SetDescription(Description)
	a.SetLogger(logger)
	a.Temperature = cfg.Temperature
	if cfg.MaxCircle > 0 {
		a.Maxcircle = cfg.MaxCircle
	}
	if cfg.ToolWorkers > 0 {
		a.ToolWorkers = cfg.ToolWorkers
	}
	for _, tool := range Tools(locator, forecaster) {
		a.RegisterTool(tool)
	}
	return a
}
