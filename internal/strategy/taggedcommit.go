package strategy

import (
	"fmt"

	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/git"
)

// CurrentCommitTagStrategy returns a candidate only when HEAD itself carries
// a version tag: (tag-version, should_increment=false, source=HEAD).
type CurrentCommitTagStrategy struct {
	store *git.RepositoryStore
}

// NewCurrentCommitTagStrategy creates a new CurrentCommitTagStrategy.
func NewCurrentCommitTagStrategy(store *git.RepositoryStore) *CurrentCommitTagStrategy {
	return &CurrentCommitTagStrategy{store: store}
}

func (s *CurrentCommitTagStrategy) Name() string { return "CurrentCommitTag" }

func (s *CurrentCommitTagStrategy) GetBaseVersions(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) ([]BaseVersion, error) {
	if !ctx.IsCurrentCommitTagged {
		return nil, nil
	}

	var exp *Explanation
	if explain {
		exp = NewExplanation(s.Name())
		exp.Addf("HEAD %s carries tag %s", ctx.CurrentCommit.ShortSha(), ctx.CurrentCommitTaggedVersion.SemVer())
	}

	head := ctx.CurrentCommit
	return []BaseVersion{{
		Source:            fmt.Sprintf("Tag on current commit %s", head.ShortSha()),
		ShouldIncrement:   false,
		SemanticVersion:   ctx.CurrentCommitTaggedVersion,
		BaseVersionSource: &head,
		Explanation:       exp,
	}}, nil
}
