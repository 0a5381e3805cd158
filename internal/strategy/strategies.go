package strategy

import (
	"nextver/internal/git"
	"nextver/internal/tagrepo"
)

// AllStrategies returns all version strategies in priority order. It does
// not filter; SelectStrategies narrows the roster to the names configured in
// ec.VersionStrategy. Strategies are evaluated in this order during base
// version selection:
//  1. ConfiguredNextVersion — explicit next-version override
//  2. CurrentCommitTag — version tag directly on HEAD
//  3. MergeMessage — versions from merge/squash commit messages
//  4. VersionInBranchName — version extracted from release branch names
//  5. TrackReleaseBranches — release branch tracking (for develop)
//  6. TaggedVersion — highest reachable/merge-target/release/main tag
//  7. TrunkBased — ordered-incrementer commit walk for mainline branches
//  8. Fallback — default base version when no other strategy matches
func AllStrategies(store *git.RepositoryStore, tags *tagrepo.Repository, analyzer commitAnalyzer) []VersionStrategy {
	return []VersionStrategy{
		NewConfigNextVersionStrategy(),
		NewCurrentCommitTagStrategy(store),
		NewMergeMessageStrategy(store),
		NewVersionInBranchNameStrategy(store),
		NewTrackReleaseBranchesStrategy(store),
		NewTaggedVersionStrategy(tags),
		NewTrunkBasedStrategy(store, tags, analyzer),
		NewFallbackStrategy(store),
	}
}

// SelectStrategies filters a strategy roster down to the names in selected,
// preserving roster order. An empty selected returns all of them unchanged.
func SelectStrategies(all []VersionStrategy, selected []string) []VersionStrategy {
	if len(selected) == 0 {
		return all
	}
	wanted := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		wanted[name] = struct{}{}
	}
	var result []VersionStrategy
	for _, s := range all {
		if _, ok := wanted[s.Name()]; ok {
			result = append(result, s)
		}
	}
	return result
}
