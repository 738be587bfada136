package config

import (
	"fmt"

	"github.com/plasticlab/niasflow/internal/core"
)

// CheckToolRequirements validates one tool's declared requirements for a
// goal against the resolved settings. Validation is fail-fast: the first
// unmet requirement is returned and aborts the configuration load.
func (s *Settings) CheckToolRequirements(tool core.ToolID, goal core.Goal) error {
	req := s.Schema.Tool(tool).GoalRequirements(goal)

	for _, key := range req.Paths {
		if !s.HasPath(key) {
			return core.ErrRequirement(tool,
				fmt.Sprintf("all of %v required for %s, but %q is missing in paths settings", req.Paths, goal, key))
		}
	}

	params := s.ToolParams(tool)
	for _, key := range req.Settings {
		if _, ok := params[key]; !ok {
			return core.ErrRequirement(tool,
				fmt.Sprintf("all of %v required for %s, but %q is missing in %s settings", req.Settings, goal, key, tool))
		}
	}

	for _, group := range req.OptionalPaths {
		if !anyPresent(group, s.HasPath) {
			return core.ErrRequirement(tool,
				fmt.Sprintf("any one of %v required for %s, but none is present in paths settings", group, goal))
		}
	}

	for _, group := range req.OptionalSettings {
		if !anyPresent(group, func(key string) bool { _, ok := params[key]; return ok }) {
			return core.ErrRequirement(tool,
				fmt.Sprintf("any one of %v required for %s, but none is present in %s settings", group, goal, tool))
		}
	}

	return nil
}

// CheckAllRequirements validates every selected tool for its goal, plus the
// universal all_tools entry for both goals.
func (s *Settings) CheckAllRequirements() error {
	for _, tool := range s.RunSet {
		if err := s.CheckToolRequirements(tool, core.GoalRunning); err != nil {
			return err
		}
	}
	for _, tool := range s.IntegrateSet {
		if err := s.CheckToolRequirements(tool, core.GoalIntegration); err != nil {
			return err
		}
	}
	for _, goal := range []core.Goal{core.GoalRunning, core.GoalIntegration} {
		if err := s.CheckToolRequirements(core.AllTools, goal); err != nil {
			return err
		}
	}
	return nil
}

func anyPresent(group []string, present func(string) bool) bool {
	if len(group) == 0 {
		return true
	}
	for _, key := range group {
		if present(key) {
			return true
		}
	}
	return false
}
