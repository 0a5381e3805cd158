package calculator

import (
	"fmt"

	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/git"
	"nextver/internal/semver"
	"nextver/internal/strategy"
)

// VersionResult holds the calculated version and metadata.
type VersionResult struct {
	Version              semver.SemanticVersion
	BaseVersion          strategy.BaseVersion
	BranchName           string
	CommitsSince         int64
	AllCandidates        []strategy.BaseVersion
	IncrementExplanation *IncrementExplanation // nil when explain is false
	PreReleaseSteps      []string              // nil when explain is false
}

// NextVersionCalculator orchestrates the full version calculation pipeline.
type NextVersionCalculator struct {
	store *git.RepositoryStore
	base  *BaseVersionCalculator
	incr  *IncrementStrategyFinder
}

// NewNextVersionCalculator creates a NextVersionCalculator with all sub-calculators.
func NewNextVersionCalculator(
	store *git.RepositoryStore,
	strategies []strategy.VersionStrategy,
) *NextVersionCalculator {
	incr := NewIncrementStrategyFinder(store)
	return &NextVersionCalculator{
		store: store,
		base:  NewBaseVersionCalculator(store, strategies, incr),
		incr:  incr,
	}
}

// Calculate computes the next version for the given context.
func (c *NextVersionCalculator) Calculate(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) (VersionResult, error) {
	branchLabel := config.GetBranchSpecificTag(ctx.CurrentBranch.FriendlyName(), ec.Tag)

	// Short-circuit #1: HEAD already carries a matching tag, the branch has
	// an explicit (non-Inherit) increment, and the config says not to bump
	// past a tagged commit. Known before any strategy runs.
	if v, ok := c.tagOnHeadShortCircuit(ctx, ec, branchLabel, false); ok {
		return v, nil
	}

	// Step 2: Get the winning base version from all strategies.
	baseResult, err := c.base.Calculate(ctx, ec, explain)
	if err != nil {
		return VersionResult{}, err
	}

	bv := baseResult.BaseVersion

	// Short-circuit #2: the same check, but only observable for Inherit
	// branches once the winning strategy (and hence its resolved increment)
	// is known.
	if ec.BranchIncrement == semver.IncrementStrategyInherit {
		if v, ok := c.tagOnHeadShortCircuit(ctx, ec, branchLabel, true); ok {
			return v, nil
		}
	}

	ver, incrExp, err := c.incrementedVersion(ctx, bv, ec, explain)
	if err != nil {
		return VersionResult{}, err
	}

	// Alternative floor: a strategy (trunk-based) may require the triple to
	// be no lower than a configured alternative, ignoring pre-release.
	if bv.AlternativeSemanticVersion != nil {
		ver = ver.WithAlternativeFloor(*bv.AlternativeSemanticVersion)
	}

	branchName := effectiveBranchName(ctx, bv)
	ver, preReleaseSteps := c.updatePreReleaseTag(ver, ctx, ec, branchName, explain)

	commitsSince := c.countCommitsSince(ctx, bv)

	ver, metadataCommitsSince := c.postProcess(ver, ec, commitsSince)
	ver = c.applyBuildMetadata(ver, ctx, bv, branchName, metadataCommitsSince)

	return VersionResult{
		Version:              ver,
		BaseVersion:          bv,
		BranchName:           branchName,
		CommitsSince:         commitsSince,
		AllCandidates:        baseResult.AllCandidates,
		IncrementExplanation: incrExp,
		PreReleaseSteps:      preReleaseSteps,
	}, nil
}

// tagOnHeadShortCircuit implements the HEAD-tag-match identity check shared
// by both short-circuit points in Calculate. Before strategy resolution an
// Inherit branch is skipped; afterResolution lifts that restriction.
func (c *NextVersionCalculator) tagOnHeadShortCircuit(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	branchLabel string,
	afterResolution bool,
) (VersionResult, bool) {
	if !ctx.IsCurrentCommitTagged || !ec.PreventIncrementWhenCurrentCommitTagged {
		return VersionResult{}, false
	}
	if ec.BranchIncrement == semver.IncrementStrategyInherit && !afterResolution {
		return VersionResult{}, false
	}
	if !ctx.CurrentCommitTaggedVersion.IsMatchForBranchSpecificLabel(branchLabel) {
		return VersionResult{}, false
	}

	ver := ctx.CurrentCommitTaggedVersion
	if ec.BranchMode == semver.VersioningModeContinuousDeployment {
		ver = ver.WithPreReleaseTag(semver.PreReleaseTag{})
	}

	zero := int64(0)
	ver = ver.WithBuildMetaData(semver.BuildMetaData{
		CommitsSinceTag:           &zero,
		Branch:                    ctx.CurrentBranch.FriendlyName(),
		Sha:                       ctx.CurrentCommit.Sha,
		ShortSha:                  ctx.CurrentCommit.ShortSha(),
		VersionSourceSha:          ctx.CurrentCommit.Sha,
		CommitDate:                ctx.CurrentCommit.When,
		CommitsSinceVersionSource: 0,
		UncommittedChanges:        int64(ctx.NumberOfUncommittedChanges),
	})

	return VersionResult{
		Version:    ver,
		BranchName: ctx.CurrentBranch.FriendlyName(),
	}, true
}

// incrementedVersion resolves the increment to apply. A trunk-based base
// version already carries its resolved field (and an optional force flag)
// from the iterator; everything else falls through to the commit-message
// scan in the IncrementStrategyFinder.
func (c *NextVersionCalculator) incrementedVersion(
	ctx *context.GitVersionContext,
	bv strategy.BaseVersion,
	ec config.EffectiveConfiguration,
	explain bool,
) (semver.SemanticVersion, *IncrementExplanation, error) {
	if bv.Increment != semver.VersionFieldNone || bv.ForceIncrement {
		label := bv.Label
		if label == "" {
			label = ec.Tag
		}
		ver := bv.SemanticVersion.Increment(bv.Increment, label, bv.ForceIncrement)
		var exp *IncrementExplanation
		if explain {
			exp = &IncrementExplanation{}
			exp.Addf("base version carries resolved increment %s (label=%q force=%t)", bv.Increment, label, bv.ForceIncrement)
		}
		return ver, exp, nil
	}

	result, err := c.incr.DetermineIncrementedFieldExplained(ctx, bv, ec, explain)
	if err != nil {
		return semver.SemanticVersion{}, nil, err
	}

	ver := bv.SemanticVersion
	if result.Field != semver.VersionFieldNone {
		ver = ver.IncrementField(result.Field)
	}

	return ver, result.Explanation, nil
}

// postProcess applies the deployment-mode-specific shaping that happens
// after the pre-release tag has been assigned:
//   - ManualDeployment: left untouched, commits-since-source stays exact.
//   - ContinuousDelivery: pre-release retains its label but the number
//     reflects commitsSince rather than an existing-tag count; since that
//     distance is now baked into the pre-release number, commits-since is
//     cleared for the build-metadata stage that follows.
//   - ContinuousDeployment: the pre-release tag is stripped entirely.
//
// Returns the shaped version and the commits-since value that
// applyBuildMetadata should use, which differs from the input only in the
// ContinuousDelivery case.
func (c *NextVersionCalculator) postProcess(
	ver semver.SemanticVersion,
	ec config.EffectiveConfiguration,
	commitsSince int64,
) (semver.SemanticVersion, int64) {
	switch ec.BranchMode {
	case semver.VersioningModeContinuousDeployment:
		return ver.WithPreReleaseTag(semver.PreReleaseTag{}), commitsSince
	case semver.VersioningModeContinuousDelivery:
		if ver.PreReleaseTag.Name == "" {
			return ver, commitsSince
		}
		n := commitsSince
		if n < 1 {
			n = 1
		}
		return ver.WithPreReleaseTag(semver.PreReleaseTag{Name: ver.PreReleaseTag.Name, Number: &n}), 0
	default:
		return ver, commitsSince
	}
}

// updatePreReleaseTag sets the pre-release tag based on branch config.
// Returns the updated version and optional explain steps.
func (c *NextVersionCalculator) updatePreReleaseTag(
	ver semver.SemanticVersion,
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	branchName string,
	explain bool,
) (semver.SemanticVersion, []string) {
	// Release branches and main branches don't get pre-release tags.
	if ec.Tag == "" || ec.IsReleaseBranch || ec.IsMainline {
		return ver, nil
	}

	tagName := config.GetBranchSpecificTag(branchName, ec.Tag)
	if tagName == "" {
		return ver, nil
	}

	var steps []string
	if explain {
		steps = append(steps, fmt.Sprintf("branch config tag=%q -> %q", ec.Tag, tagName))
	}

	// Find the next pre-release number by looking at existing tags.
	number := int64(1)
	existingTags, err := c.store.GetValidVersionTags(ec.TagPrefix, nil)
	if err == nil {
		for _, vt := range existingTags {
			if vt.Version.Major == ver.Major &&
				vt.Version.Minor == ver.Minor &&
				vt.Version.Patch == ver.Patch &&
				vt.Version.PreReleaseTag.Name == tagName &&
				vt.Version.PreReleaseTag.Number != nil {
				if *vt.Version.PreReleaseTag.Number >= number {
					number = *vt.Version.PreReleaseTag.Number + 1
				}
			}
		}
	}

	if explain {
		if number == 1 {
			steps = append(steps, fmt.Sprintf("no existing tag for %d.%d.%d-%s -> number = 1", ver.Major, ver.Minor, ver.Patch, tagName))
		} else {
			steps = append(steps, fmt.Sprintf("existing tag for %d.%d.%d-%s -> number = %d", ver.Major, ver.Minor, ver.Patch, tagName, number))
		}
	}

	return ver.WithPreReleaseTag(semver.PreReleaseTag{Name: tagName, Number: &number}), steps
}

// effectiveBranchName returns the branch name to use for pre-release tags.
func effectiveBranchName(
	ctx *context.GitVersionContext,
	bv strategy.BaseVersion,
) string {
	if bv.BranchNameOverride != "" {
		return bv.BranchNameOverride
	}
	return ctx.CurrentBranch.FriendlyName()
}

// countCommitsSince counts commits between base version source and current commit.
func (c *NextVersionCalculator) countCommitsSince(
	ctx *context.GitVersionContext,
	bv strategy.BaseVersion,
) int64 {
	from := git.Commit{}
	if bv.BaseVersionSource != nil {
		from = *bv.BaseVersionSource
	}

	commits, err := c.store.GetCommitLog(from, ctx.CurrentCommit)
	if err != nil {
		return 0
	}

	count := int64(len(commits))
	if bv.BaseVersionSource != nil {
		for _, co := range commits {
			if co.Sha == bv.BaseVersionSource.Sha {
				count--
				break
			}
		}
	}
	return count
}

// applyBuildMetadata adds build metadata to the version.
func (c *NextVersionCalculator) applyBuildMetadata(
	ver semver.SemanticVersion,
	ctx *context.GitVersionContext,
	bv strategy.BaseVersion,
	branchName string,
	commitsSince int64,
) semver.SemanticVersion {
	versionSourceSha := ""
	if bv.BaseVersionSource != nil {
		versionSourceSha = bv.BaseVersionSource.Sha
	}

	return ver.WithBuildMetaData(semver.BuildMetaData{
		CommitsSinceTag:           &commitsSince,
		Branch:                    branchName,
		Sha:                       ctx.CurrentCommit.Sha,
		ShortSha:                  ctx.CurrentCommit.ShortSha(),
		VersionSourceSha:          versionSourceSha,
		CommitDate:                ctx.CurrentCommit.When,
		CommitsSinceVersionSource: commitsSince,
		UncommittedChanges:        int64(ctx.NumberOfUncommittedChanges),
	})
}
