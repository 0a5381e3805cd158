// Package tagrepo implements the tagged version repository: it extracts
// tags from the git view, parses them as semantic versions, and serves
// cached, filtered lookups scoped by branch, merge target, or branch class.
package tagrepo

import (
	"time"

	"sync"

	"nextver/internal/config"
	"nextver/internal/git"

	"golang.org/x/sync/singleflight"
)

// syncMap is a minimally-typed wrapper over sync.Map: safe for concurrent
// get-or-insert, values immutable once stored.
type syncMap[K comparable, V any] struct {
	m sync.Map
}

func (s *syncMap[K, V]) Load(key K) (V, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (s *syncMap[K, V]) Store(key K, value V) {
	s.m.Store(key, value)
}

// IgnoreFilter excludes tagged versions by commit sha or by a cutoff date.
type IgnoreFilter struct {
	Sha    map[string]struct{}
	Before *time.Time
}

func (f IgnoreFilter) allows(commit git.Commit) bool {
	if f.Sha != nil {
		if _, excluded := f.Sha[commit.Sha]; excluded {
			return false
		}
	}
	if f.Before != nil && commit.When.Before(*f.Before) {
		return false
	}
	return true
}

type branchKey struct {
	branch string
	prefix string
	format string
}

type globalKey struct {
	prefix string
	format string
}

// Repository is the tagged version repository. It owns the three cache
// tables from the concurrency model: tagged-versions-of-branch, tagged-
// versions-of-merge-target (both keyed by (branch, prefix, format)), and
// the global tagged-versions table (keyed by (prefix, format)). Caches are
// safe for concurrent get-or-insert; a singleflight group collapses
// concurrent misses for the same key to a single producer invocation.
type Repository struct {
	store *git.RepositoryStore

	branchGroup singleflight.Group
	branchCache syncMap[branchKey, map[string][]git.VersionTag]

	mergeGroup singleflight.Group
	mergeCache syncMap[branchKey, map[string][]git.VersionTag]

	globalGroup singleflight.Group
	globalCache syncMap[globalKey, map[string][]git.VersionTag]
}

// New creates a Repository backed by store.
func New(store *git.RepositoryStore) *Repository {
	return &Repository{store: store}
}

func formatKey(semanticVersionFormat string) string {
	if semanticVersionFormat == "" {
		return "Strict"
	}
	return semanticVersionFormat
}

// TaggedVersions returns the global lookup from commit sha to the versions
// tagged at that commit, filtered by ignore rules. Unparseable tags are
// silently dropped. Cached per (prefix, format).
func (r *Repository) TaggedVersions(prefix, format string, ignore IgnoreFilter) (map[string][]git.VersionTag, error) {
	key := globalKey{prefix: prefix, format: formatKey(format)}

	if cached, ok := r.globalCache.Load(key); ok {
		return applyIgnore(cached, ignore), nil
	}

	v, err, _ := r.globalGroup.Do(prefixFormatKeyString(key), func() (any, error) {
		tags, err := r.store.GetValidVersionTags(prefix, nil)
		if err != nil {
			return nil, err
		}
		byCommit := make(map[string][]git.VersionTag)
		for _, vt := range tags {
			byCommit[vt.Commit.Sha] = append(byCommit[vt.Commit.Sha], vt)
		}
		r.globalCache.Store(key, byCommit)
		return byCommit, nil
	})
	if err != nil {
		return nil, err
	}
	return applyIgnore(v.(map[string][]git.VersionTag), ignore), nil
}

// TaggedVersionsOfBranch returns the commits reachable from branch that carry
// version tags, each paired with the versions parsed from its tags; untagged
// commits are not included. Cached per (branch, prefix, format).
func (r *Repository) TaggedVersionsOfBranch(branch git.Branch, prefix, format string) (map[string][]git.VersionTag, error) {
	key := branchKey{branch: branch.FriendlyName(), prefix: prefix, format: formatKey(format)}

	if cached, ok := r.branchCache.Load(key); ok {
		return cached, nil
	}

	v, err, _ := r.branchGroup.Do(branchKeyString(key), func() (any, error) {
		all, err := r.TaggedVersions(prefix, format, IgnoreFilter{})
		if err != nil {
			return nil, err
		}
		if branch.Tip == nil {
			return map[string][]git.VersionTag{}, nil
		}
		commits, err := r.store.GetCommitLog(git.Commit{}, *branch.Tip)
		if err != nil {
			return nil, err
		}
		result := make(map[string][]git.VersionTag)
		for _, c := range commits {
			if vts, ok := all[c.Sha]; ok {
				result[c.Sha] = vts
			}
		}
		r.branchCache.Store(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string][]git.VersionTag), nil
}

// TaggedVersionsOfMergeTarget is like TaggedVersionsOfBranch but records a
// version against the child commit whose parent carries the tag: used when
// a branch's merge target already advanced past the tagged commit.
func (r *Repository) TaggedVersionsOfMergeTarget(branch git.Branch, prefix, format string) (map[string][]git.VersionTag, error) {
	key := branchKey{branch: branch.FriendlyName(), prefix: prefix, format: formatKey(format)}

	if cached, ok := r.mergeCache.Load(key); ok {
		return cached, nil
	}

	v, err, _ := r.mergeGroup.Do(branchKeyString(key), func() (any, error) {
		all, err := r.TaggedVersions(prefix, format, IgnoreFilter{})
		if err != nil {
			return nil, err
		}
		if branch.Tip == nil {
			return map[string][]git.VersionTag{}, nil
		}
		commits, err := r.store.GetCommitLog(git.Commit{}, *branch.Tip)
		if err != nil {
			return nil, err
		}
		byParent := make(map[string]git.Commit)
		for _, c := range commits {
			for _, p := range c.Parents {
				byParent[p] = c
			}
		}
		result := make(map[string][]git.VersionTag)
		for sha, vts := range all {
			if child, ok := byParent[sha]; ok {
				result[child.Sha] = append(result[child.Sha], vts...)
			}
		}
		r.mergeCache.Store(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string][]git.VersionTag), nil
}

// TaggedVersionsOfBranchSet unions TaggedVersionsOfBranch across branches,
// excluding any branch whose friendly name matches one in exclude.
func (r *Repository) TaggedVersionsOfBranchSet(branches []git.Branch, prefix, format string, exclude ...git.Branch) (map[string][]git.VersionTag, error) {
	excluded := make(map[string]struct{}, len(exclude))
	for _, b := range exclude {
		excluded[b.FriendlyName()] = struct{}{}
	}

	result := make(map[string][]git.VersionTag)
	for _, b := range branches {
		if _, skip := excluded[b.FriendlyName()]; skip {
			continue
		}
		byCommit, err := r.TaggedVersionsOfBranch(b, prefix, format)
		if err != nil {
			return nil, err
		}
		for sha, vts := range byCommit {
			result[sha] = mergeVersionTags(result[sha], vts)
		}
	}
	return result, nil
}

// AllTaggedVersions composes four sources in priority order, de-duplicates,
// and filters by label match and recency:
//  1. tagged versions reachable from branch
//  2. if ec.TrackMergeTarget: versions whose tagged commit is a parent of a
//     commit on branch
//  3. if ec.TracksReleaseBranches: versions on all release branches
//     (excluding branch)
//  4. if branch is neither main nor a release branch: versions on all main
//     branches (excluding branch)
func (r *Repository) AllTaggedVersions(
	cfg *config.Config,
	ec config.EffectiveConfiguration,
	branch git.Branch,
	label string,
	notOlderThan time.Time,
) ([]git.VersionTag, error) {
	byCommit := make(map[string][]git.VersionTag)

	own, err := r.TaggedVersionsOfBranch(branch, ec.TagPrefix, ec.SemanticVersionFormat)
	if err != nil {
		return nil, err
	}
	for sha, vts := range own {
		byCommit[sha] = mergeVersionTags(byCommit[sha], vts)
	}

	if ec.TrackMergeTarget {
		merged, err := r.TaggedVersionsOfMergeTarget(branch, ec.TagPrefix, ec.SemanticVersionFormat)
		if err != nil {
			return nil, err
		}
		for sha, vts := range merged {
			byCommit[sha] = mergeVersionTags(byCommit[sha], vts)
		}
	}

	if ec.TracksReleaseBranches {
		releaseBranches, err := r.store.GetReleaseBranches(cfg.GetReleaseBranchConfig())
		if err == nil {
			release, err := r.TaggedVersionsOfBranchSet(releaseBranches, ec.TagPrefix, ec.SemanticVersionFormat, branch)
			if err != nil {
				return nil, err
			}
			for sha, vts := range release {
				byCommit[sha] = mergeVersionTags(byCommit[sha], vts)
			}
		}
	}

	if !ec.IsMainline && !ec.IsReleaseBranch {
		mainBranch, found, err := r.store.FindMainBranch(cfg)
		if err == nil && found {
			main, err := r.TaggedVersionsOfBranchSet([]git.Branch{mainBranch}, ec.TagPrefix, ec.SemanticVersionFormat, branch)
			if err != nil {
				return nil, err
			}
			for sha, vts := range main {
				byCommit[sha] = mergeVersionTags(byCommit[sha], vts)
			}
		}
	}

	var result []git.VersionTag
	for _, vts := range byCommit {
		for _, vt := range vts {
			if !vt.Version.IsMatchForBranchSpecificLabel(label) {
				continue
			}
			if vt.Commit.When.After(notOlderThan) {
				continue
			}
			result = append(result, vt)
		}
	}
	return result, nil
}

func applyIgnore(byCommit map[string][]git.VersionTag, ignore IgnoreFilter) map[string][]git.VersionTag {
	if ignore.Sha == nil && ignore.Before == nil {
		return byCommit
	}
	result := make(map[string][]git.VersionTag, len(byCommit))
	for sha, vts := range byCommit {
		var kept []git.VersionTag
		for _, vt := range vts {
			if ignore.allows(vt.Commit) {
				kept = append(kept, vt)
			}
		}
		if len(kept) > 0 {
			result[sha] = kept
		}
	}
	return result
}

func mergeVersionTags(existing, incoming []git.VersionTag) []git.VersionTag {
	seen := make(map[string]struct{}, len(existing))
	for _, vt := range existing {
		seen[vt.Tag.Name.Canonical] = struct{}{}
	}
	for _, vt := range incoming {
		if _, ok := seen[vt.Tag.Name.Canonical]; ok {
			continue
		}
		existing = append(existing, vt)
		seen[vt.Tag.Name.Canonical] = struct{}{}
	}
	return existing
}

func branchKeyString(k branchKey) string {
	return k.branch + "\x00" + k.prefix + "\x00" + k.format
}

func prefixFormatKeyString(k globalKey) string {
	return k.prefix + "\x00" + k.format
}
