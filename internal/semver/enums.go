// Package semver provides immutable semantic versioning types.
package semver

import (
	"fmt"
	"strings"
)

// VersionField represents which field of a semantic version to increment.
type VersionField int

const (
	VersionFieldNone VersionField = iota
	VersionFieldPatch
	VersionFieldMinor
	VersionFieldMajor
)

func (f VersionField) String() string {
	switch f {
	case VersionFieldNone:
		return "None"
	case VersionFieldPatch:
		return "Patch"
	case VersionFieldMinor:
		return "Minor"
	case VersionFieldMajor:
		return "Major"
	default:
		return "Unknown"
	}
}

// IncrementStrategy represents the configured increment strategy for a branch.
type IncrementStrategy int

const (
	IncrementStrategyNone IncrementStrategy = iota
	IncrementStrategyMajor
	IncrementStrategyMinor
	IncrementStrategyPatch
	IncrementStrategyInherit
)

func (s IncrementStrategy) String() string {
	switch s {
	case IncrementStrategyNone:
		return "None"
	case IncrementStrategyMajor:
		return "Major"
	case IncrementStrategyMinor:
		return "Minor"
	case IncrementStrategyPatch:
		return "Patch"
	case IncrementStrategyInherit:
		return "Inherit"
	default:
		return "Unknown"
	}
}

// ToVersionField converts an IncrementStrategy to a VersionField.
// Inherit and None both map to VersionFieldNone.
func (s IncrementStrategy) ToVersionField() VersionField {
	switch s {
	case IncrementStrategyMajor:
		return VersionFieldMajor
	case IncrementStrategyMinor:
		return VersionFieldMinor
	case IncrementStrategyPatch:
		return VersionFieldPatch
	default:
		return VersionFieldNone
	}
}

// VersioningMode represents the deployment mode a branch calculates under.
// Trunk-based accumulation is a base version strategy, not a mode: a branch
// running ManualDeployment can still be fed by the trunk-based strategy.
type VersioningMode int

const (
	VersioningModeManualDeployment VersioningMode = iota
	VersioningModeContinuousDelivery
	VersioningModeContinuousDeployment
)

func (m VersioningMode) String() string {
	switch m {
	case VersioningModeManualDeployment:
		return "ManualDeployment"
	case VersioningModeContinuousDelivery:
		return "ContinuousDelivery"
	case VersioningModeContinuousDeployment:
		return "ContinuousDeployment"
	default:
		return "Unknown"
	}
}

// ParseVersioningMode parses a versioning mode name, case-insensitively,
// accepting "manual" as an alias for ManualDeployment.
func ParseVersioningMode(s string) (VersioningMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manualdeployment", "manual":
		return VersioningModeManualDeployment, nil
	case "continuousdelivery":
		return VersioningModeContinuousDelivery, nil
	case "continuousdeployment":
		return VersioningModeContinuousDeployment, nil
	default:
		return 0, fmt.Errorf("unknown versioning mode %q", s)
	}
}

// CommitMessageIncrementMode controls how commit messages affect version incrementing.
type CommitMessageIncrementMode int

const (
	CommitMessageIncrementEnabled CommitMessageIncrementMode = iota
	CommitMessageIncrementDisabled
	CommitMessageIncrementMergeMessageOnly
)

func (m CommitMessageIncrementMode) String() string {
	switch m {
	case CommitMessageIncrementEnabled:
		return "Enabled"
	case CommitMessageIncrementDisabled:
		return "Disabled"
	case CommitMessageIncrementMergeMessageOnly:
		return "MergeMessageOnly"
	default:
		return "Unknown"
	}
}

// CommitMessageConvention controls which commit message conventions are used
// for version incrementing.
type CommitMessageConvention int

const (
	CommitMessageConventionConventionalCommits CommitMessageConvention = iota
	CommitMessageConventionBumpDirective
	CommitMessageConventionBoth
)

func (c CommitMessageConvention) String() string {
	switch c {
	case CommitMessageConventionConventionalCommits:
		return "ConventionalCommits"
	case CommitMessageConventionBumpDirective:
		return "BumpDirective"
	case CommitMessageConventionBoth:
		return "Both"
	default:
		return "Unknown"
	}
}

// ParseIncrementStrategy parses an increment strategy name, case-insensitively.
func ParseIncrementStrategy(s string) (IncrementStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return IncrementStrategyNone, nil
	case "major":
		return IncrementStrategyMajor, nil
	case "minor":
		return IncrementStrategyMinor, nil
	case "patch":
		return IncrementStrategyPatch, nil
	case "inherit":
		return IncrementStrategyInherit, nil
	default:
		return 0, fmt.Errorf("unknown increment strategy %q", s)
	}
}

// ParseCommitMessageIncrementMode parses a commit-message incrementing mode
// name, case-insensitively.
func ParseCommitMessageIncrementMode(s string) (CommitMessageIncrementMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enabled":
		return CommitMessageIncrementEnabled, nil
	case "disabled":
		return CommitMessageIncrementDisabled, nil
	case "mergemessageonly":
		return CommitMessageIncrementMergeMessageOnly, nil
	default:
		return 0, fmt.Errorf("unknown commit message increment mode %q", s)
	}
}

// ParseCommitMessageConvention parses a commit message convention name,
// case-insensitively.
func ParseCommitMessageConvention(s string) (CommitMessageConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conventionalcommits":
		return CommitMessageConventionConventionalCommits, nil
	case "bumpdirective":
		return CommitMessageConventionBumpDirective, nil
	case "both":
		return CommitMessageConventionBoth, nil
	default:
		return 0, fmt.Errorf("unknown commit message convention %q", s)
	}
}
