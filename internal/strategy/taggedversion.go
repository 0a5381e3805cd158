package strategy

import (
	"fmt"

	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/tagrepo"
)

// TaggedVersionStrategy finds the highest prior tag reachable from the
// current branch (plus, per branch config, merge-target/release/main branch
// tags composed by the tag repository), yielding should_increment=true
// candidates for every match.
type TaggedVersionStrategy struct {
	tags *tagrepo.Repository
}

// NewTaggedVersionStrategy creates a new TaggedVersionStrategy backed by repo.
func NewTaggedVersionStrategy(repo *tagrepo.Repository) *TaggedVersionStrategy {
	return &TaggedVersionStrategy{tags: repo}
}

func (s *TaggedVersionStrategy) Name() string { return "TaggedVersion" }

func (s *TaggedVersionStrategy) GetBaseVersions(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) ([]BaseVersion, error) {
	if ctx.CurrentBranch.Tip == nil {
		return nil, nil
	}

	label := config.GetBranchSpecificTag(ctx.CurrentBranch.FriendlyName(), ec.Tag)

	versionTags, err := s.tags.AllTaggedVersions(ctx.FullConfiguration, ec, ctx.CurrentBranch, label, ctx.CurrentCommit.When)
	if err != nil {
		return nil, fmt.Errorf("querying tag repository: %w", err)
	}

	results := make([]BaseVersion, 0, len(versionTags))
	for _, vt := range versionTags {
		// The current commit's own tag is the CurrentCommitTagStrategy's job.
		if vt.Commit.Sha == ctx.CurrentCommit.Sha {
			continue
		}

		var exp *Explanation
		if explain {
			exp = NewExplanation(s.Name())
			exp.Addf("tag %s on commit %s -> %s", vt.Tag.Name.Friendly, vt.Commit.ShortSha(), vt.Version.SemVer())
		}

		c := vt.Commit
		results = append(results, BaseVersion{
			Source:            fmt.Sprintf("Git tag '%s'", vt.Tag.Name.Friendly),
			ShouldIncrement:   true,
			SemanticVersion:   vt.Version,
			BaseVersionSource: &c,
			Explanation:       exp,
		})
	}

	return results, nil
}
