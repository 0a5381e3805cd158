package strategy

import (
	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/git"
	"nextver/internal/semver"
	"nextver/internal/tagrepo"
	"nextver/internal/trunk"
)

// commitAnalyzer is the subset of IncrementStrategyFinder that TrunkBasedStrategy
// needs: scoring a single commit message against the configured convention.
// Satisfied by *calculator.IncrementStrategyFinder without importing calculator
// (which itself imports strategy).
type commitAnalyzer interface {
	AnalyzeCommitIncrement(c git.Commit, ec config.EffectiveConfiguration) semver.VersionField
}

// TrunkBasedStrategy walks the mainline commit log from the beginning of
// history with the Trunk-Based Iterator, threading a mutable version/label
// context through an ordered list of incrementers. Only applicable to
// branches configured as mainline (ec.IsMainline).
type TrunkBasedStrategy struct {
	store    *git.RepositoryStore
	tags     *tagrepo.Repository
	analyzer commitAnalyzer
}

// NewTrunkBasedStrategy creates a new TrunkBasedStrategy backed by store,
// consulting tags for tagged-commit lookups during the walk and using
// analyzer to score individual commit messages for bump directives.
func NewTrunkBasedStrategy(store *git.RepositoryStore, tags *tagrepo.Repository, analyzer commitAnalyzer) *TrunkBasedStrategy {
	return &TrunkBasedStrategy{store: store, tags: tags, analyzer: analyzer}
}

func (s *TrunkBasedStrategy) Name() string { return "TrunkBased" }

func (s *TrunkBasedStrategy) GetBaseVersions(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) ([]BaseVersion, error) {
	if !ec.IsMainline {
		return nil, nil
	}

	result, err := trunk.Iterate(s.store, ctx, ec, semver.SemanticVersion{}, s.tags, s.analyzer.AnalyzeCommitIncrement)
	if err != nil {
		return nil, err
	}
	if !result.ShouldIncrement && result.Increment == semver.VersionFieldNone {
		return nil, nil
	}

	var exp *Explanation
	if explain {
		exp = NewExplanation(s.Name())
		exp.Addf("trunk iterator resolved increment=%s label=%q force=%t", result.Increment, result.Label, result.ForceIncrement)
	}

	return []BaseVersion{{
		Source:            "Trunk-based commit walk",
		ShouldIncrement:   result.ShouldIncrement,
		SemanticVersion:   result.SemanticVersion,
		BaseVersionSource: result.BaseVersionSource,
		Increment:         result.Increment,
		Label:             result.Label,
		ForceIncrement:    result.ForceIncrement,
		Explanation:       exp,
	}}, nil
}
