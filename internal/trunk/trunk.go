// Package trunk implements the trunk-based iterator: it walks the mainline
// commit log oldest to HEAD, feeding each commit through an ordered list of
// incrementers that decide how the rolling version accumulates. Adapted from
// the aggregate/each-commit mainline walk that used to live directly in the
// calculator package.
package trunk

import (
	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/git"
	"nextver/internal/semver"
	"nextver/internal/tagrepo"
	"slices"
	"strings"
)

// iterContext is the mutable state threaded through the commit walk.
type iterContext struct {
	BaseVersionSource *git.Commit
	SemanticVersion   semver.SemanticVersion
	Label             string
	Increment         semver.VersionField
	ForceIncrement    bool
	HasIncrement      bool

	// BranchLabel is the branch's configured label, resolved once up front
	// via config.GetBranchSpecificTag. Incrementers that pin the label back
	// to "the branch's configured label" (rather than preserving whatever a
	// tagged commit carried) read this instead of re-resolving ec.Tag.
	BranchLabel string
}

// Incrementer decides, for a single commit, whether it governs how the
// rolling version advances. Exactly one incrementer fires per commit; they
// are consulted in order and the first match wins.
type Incrementer interface {
	// MatchPrecondition reports whether this incrementer applies to commit.
	MatchPrecondition(commit git.Commit, ctx *iterContext, ec config.EffectiveConfiguration, onMain bool) bool

	// Apply updates ctx to reflect commit having been processed.
	Apply(commit git.Commit, ctx *iterContext, ec config.EffectiveConfiguration)
}

// commitOnTrunkWithStableTag fires for ordinary commits on main once the
// rolling version has settled on a stable (non-pre-release) value: no
// increment is owed, but the base version source tracks forward so
// commits-since stays accurate.
type commitOnTrunkWithStableTag struct{}

func (commitOnTrunkWithStableTag) MatchPrecondition(_ git.Commit, ctx *iterContext, _ config.EffectiveConfiguration, onMain bool) bool {
	return onMain && ctx.SemanticVersion.PreReleaseTag.Name == ""
}

func (commitOnTrunkWithStableTag) Apply(commit git.Commit, ctx *iterContext, _ config.EffectiveConfiguration) {
	c := commit
	ctx.BaseVersionSource = &c
	ctx.HasIncrement = false
	ctx.Label = ctx.BranchLabel
}

// commitOnTrunkWithPreReleaseTag is the pre-release counterpart: the rolling
// version already carries a label, so the label is left as-is rather than
// reset to the branch's configured one.
type commitOnTrunkWithPreReleaseTag struct{}

func (commitOnTrunkWithPreReleaseTag) MatchPrecondition(_ git.Commit, ctx *iterContext, _ config.EffectiveConfiguration, onMain bool) bool {
	return onMain && ctx.SemanticVersion.PreReleaseTag.Name != ""
}

func (commitOnTrunkWithPreReleaseTag) Apply(commit git.Commit, ctx *iterContext, _ config.EffectiveConfiguration) {
	c := commit
	ctx.BaseVersionSource = &c
	ctx.HasIncrement = false
}

// taggedCommitIncrementer fires when the commit itself carries one or more
// parsed version tags: the rolling version jumps to the highest of them, so
// later plain commits measure distance from an actual release rather than
// the walk's zero-value seed. Without this, commitOnTrunkWithPreReleaseTag
// could never observe a non-stable rolling version on the real mainline
// walk (only a hand-seeded one in tests).
type taggedCommitIncrementer struct {
	versionsByCommit map[string][]git.VersionTag
}

func (t taggedCommitIncrementer) MatchPrecondition(commit git.Commit, _ *iterContext, _ config.EffectiveConfiguration, onMain bool) bool {
	return onMain && len(t.versionsByCommit[commit.Sha]) > 0
}

func (t taggedCommitIncrementer) Apply(commit git.Commit, ctx *iterContext, _ config.EffectiveConfiguration) {
	versions := t.versionsByCommit[commit.Sha]
	best := versions[0].Version
	for _, vt := range versions[1:] {
		if vt.Version.CompareTo(best) > 0 {
			best = vt.Version
		}
	}
	c := commit
	ctx.SemanticVersion = best
	ctx.BaseVersionSource = &c
	ctx.HasIncrement = false
	if best.PreReleaseTag.Name != "" {
		ctx.Label = best.PreReleaseTag.Name
	} else {
		ctx.Label = ctx.BranchLabel
	}
}

// bumpMessageIncrementer fires when a commit carries a +semver: directive
// (or a Conventional Commits type), regardless of branch. It never yields
// ground to the trunk incrementers: an explicit bump message always wins.
type bumpMessageIncrementer struct {
	analyze func(git.Commit, config.EffectiveConfiguration) semver.VersionField
}

func (b bumpMessageIncrementer) MatchPrecondition(commit git.Commit, _ *iterContext, ec config.EffectiveConfiguration, _ bool) bool {
	return b.analyze(commit, ec) != semver.VersionFieldNone
}

func (b bumpMessageIncrementer) Apply(commit git.Commit, ctx *iterContext, ec config.EffectiveConfiguration) {
	field := b.analyze(commit, ec)
	if field > ctx.Increment {
		ctx.Increment = field
	}
	c := commit
	ctx.BaseVersionSource = &c
	ctx.HasIncrement = true
}

// mergedBranchIncrementer treats a merge commit as a child iteration folding
// back into trunk: it contributes the branch's default increment once.
type mergedBranchIncrementer struct{}

func (mergedBranchIncrementer) MatchPrecondition(commit git.Commit, _ *iterContext, _ config.EffectiveConfiguration, _ bool) bool {
	return commit.IsMerge()
}

func (mergedBranchIncrementer) Apply(commit git.Commit, ctx *iterContext, ec config.EffectiveConfiguration) {
	field := ec.BranchIncrement.ToVersionField()
	if field == semver.VersionFieldNone {
		field = semver.VersionFieldPatch
	}
	if field > ctx.Increment {
		ctx.Increment = field
	}
	c := commit
	ctx.BaseVersionSource = &c
	ctx.HasIncrement = true
}

// labelledCommit is the catch-all: any commit not otherwise matched still
// advances the base version source and carries the branch's own label.
type labelledCommit struct{}

func (labelledCommit) MatchPrecondition(git.Commit, *iterContext, config.EffectiveConfiguration, bool) bool {
	return true
}

func (labelledCommit) Apply(commit git.Commit, ctx *iterContext, ec config.EffectiveConfiguration) {
	c := commit
	ctx.BaseVersionSource = &c
	ctx.HasIncrement = true
	if ctx.Label == "" {
		ctx.Label = ctx.BranchLabel
	}
}

// defaultIncrementers is the ordered roster consulted per commit. Order
// matters: the first match wins.
func defaultIncrementers(versionsByCommit map[string][]git.VersionTag, analyze func(git.Commit, config.EffectiveConfiguration) semver.VersionField) []Incrementer {
	return []Incrementer{
		taggedCommitIncrementer{versionsByCommit: versionsByCommit},
		bumpMessageIncrementer{analyze: analyze},
		mergedBranchIncrementer{},
		commitOnTrunkWithStableTag{},
		commitOnTrunkWithPreReleaseTag{},
		labelledCommit{},
	}
}

// Result is the accumulated outcome of the trunk-based iteration: a single
// BaseVersionV2-shaped record summarizing should-increment, the aggregated
// (max) increment field, the resolved label, and the final base version
// source commit.
type Result struct {
	ShouldIncrement   bool
	SemanticVersion   semver.SemanticVersion
	Increment         semver.VersionField
	Label             string
	ForceIncrement    bool
	BaseVersionSource *git.Commit
}

// Iterate walks the mainline commit log oldest-to-HEAD, threading ctx
// through each commit via the ordered incrementer list, and returns the
// final accumulated record.
func Iterate(
	store *git.RepositoryStore,
	ctx0 *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	seed semver.SemanticVersion,
	tags *tagrepo.Repository,
	analyze func(git.Commit, config.EffectiveConfiguration) semver.VersionField,
) (Result, error) {
	commits, err := store.GetMainlineCommitLog(git.Commit{}, ctx0.CurrentCommit)
	if err != nil {
		return Result{}, err
	}

	// GetMainlineCommitLog returns newest-first; the iterator walks oldest
	// to HEAD so earlier trunk commits are processed before later ones.
	slices.Reverse(commits)

	var versionsByCommit map[string][]git.VersionTag
	if tags != nil {
		versionsByCommit, err = tags.TaggedVersions(ec.TagPrefix, ec.SemanticVersionFormat, tagrepo.IgnoreFilter{})
		if err != nil {
			return Result{}, err
		}
	}

	branchLabel := config.GetBranchSpecificTag(ctx0.CurrentBranch.FriendlyName(), ec.Tag)
	ic := &iterContext{SemanticVersion: seed, Label: branchLabel, BranchLabel: branchLabel}
	incrementers := defaultIncrementers(versionsByCommit, analyze)

	for _, c := range commits {
		onMain := ec.IsMainline
		for _, inc := range incrementers {
			if inc.MatchPrecondition(c, ic, ec, onMain) {
				inc.Apply(c, ic, ec)
				break
			}
		}
	}

	return Result{
		ShouldIncrement:   ic.HasIncrement,
		SemanticVersion:   ic.SemanticVersion,
		Increment:         ic.Increment,
		Label:             strings.TrimSpace(ic.Label),
		ForceIncrement:    ic.ForceIncrement,
		BaseVersionSource: ic.BaseVersionSource,
	}, nil
}
