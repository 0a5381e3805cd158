package strategy

import (
	"fmt"

	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/git"
)

// TrackReleaseBranchesStrategy finds candidates from release branches that
// are already in flight but haven't tagged yet (version parsed from the
// release branch's own name). Tags already on release branches or on main
// reach arbitration through TaggedVersionStrategy, whose tag repository
// composes exactly those sources for any branch with TracksReleaseBranches
// set — this strategy covers the complementary, tag-less case.
type TrackReleaseBranchesStrategy struct {
	store          *git.RepositoryStore
	branchStrategy *VersionInBranchNameStrategy
}

// NewTrackReleaseBranchesStrategy creates a new TrackReleaseBranchesStrategy.
func NewTrackReleaseBranchesStrategy(store *git.RepositoryStore) *TrackReleaseBranchesStrategy {
	return &TrackReleaseBranchesStrategy{
		store:          store,
		branchStrategy: NewVersionInBranchNameStrategy(store),
	}
}

func (s *TrackReleaseBranchesStrategy) Name() string { return "TrackReleaseBranches" }

func (s *TrackReleaseBranchesStrategy) GetBaseVersions(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) ([]BaseVersion, error) {
	if !ec.TracksReleaseBranches {
		return nil, nil
	}

	var exp *Explanation
	if explain {
		exp = NewExplanation(s.Name())
	}

	releaseBranchVersions, err := s.releaseBranchBaseVersions(ctx, ec, explain)
	if err != nil {
		return nil, fmt.Errorf("release branch versions: %w", err)
	}

	exp.Addf("found %d release branch versions", len(releaseBranchVersions))

	return releaseBranchVersions, nil
}

func (s *TrackReleaseBranchesStrategy) releaseBranchBaseVersions(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) ([]BaseVersion, error) {
	releaseBranchConfig := ctx.FullConfiguration.GetReleaseBranchConfig()
	if len(releaseBranchConfig) == 0 {
		return nil, nil
	}

	releaseBranches, err := s.store.GetReleaseBranches(releaseBranchConfig)
	if err != nil {
		return nil, err
	}

	var results []BaseVersion

	for _, rb := range releaseBranches {
		mergeBase, found, err := s.store.FindMergeBase(rb, ctx.CurrentBranch)
		if err != nil || !found {
			continue
		}

		// Skip if merge base is the current commit (branch has no own commits).
		if mergeBase.Sha == ctx.CurrentCommit.Sha {
			continue
		}

		releaseEC, err := ctx.GetEffectiveConfiguration(rb.FriendlyName())
		if err != nil {
			continue
		}

		branchVersions, err := s.branchStrategy.getBaseVersionsForBranch(ctx, releaseEC, rb, explain)
		if err != nil {
			continue
		}

		// Remap: set ShouldIncrement=true, use merge base as source, drop branch override.
		for _, bv := range branchVersions {
			mb := mergeBase
			results = append(results, BaseVersion{
				Source:            "Release branch exists -> " + bv.Source,
				ShouldIncrement:   true,
				SemanticVersion:   bv.SemanticVersion,
				BaseVersionSource: &mb,
				Explanation:       bv.Explanation,
			})
		}
	}

	return results, nil
}
