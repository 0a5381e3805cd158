package strategy

import (
	"errors"

	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/git"
	"nextver/internal/semver"
)

// FallbackStrategy always yields 0.0.0 with should-increment set, so every
// branch has at least one candidate even with no tags, branch hints, or
// configured next-version.
type FallbackStrategy struct {
	store *git.RepositoryStore
}

// NewFallbackStrategy creates a new FallbackStrategy.
func NewFallbackStrategy(store *git.RepositoryStore) *FallbackStrategy {
	return &FallbackStrategy{store: store}
}

func (s *FallbackStrategy) Name() string { return "Fallback" }

func (s *FallbackStrategy) GetBaseVersions(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) ([]BaseVersion, error) {
	if ctx.CurrentBranch.Tip == nil {
		return nil, errors.New("no commits found on the current branch")
	}

	var exp *Explanation
	if explain {
		exp = NewExplanation(s.Name())
		exp.Add("no other strategy found a candidate -> 0.0.0 from nothing")
	}

	return []BaseVersion{{
		Source:            "Fallback base version",
		ShouldIncrement:   true,
		SemanticVersion:   semver.SemanticVersion{},
		BaseVersionSource: nil,
		Explanation:       exp,
	}}, nil
}
