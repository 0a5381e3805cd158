package strategy

import (
	"fmt"

	"nextver/internal/config"
	"nextver/internal/context"
	"nextver/internal/semver"
)

// ConfigNextVersionStrategy returns a version from the next-version config field.
type ConfigNextVersionStrategy struct{}

// NewConfigNextVersionStrategy creates a new ConfigNextVersionStrategy.
func NewConfigNextVersionStrategy() *ConfigNextVersionStrategy {
	return &ConfigNextVersionStrategy{}
}

func (s *ConfigNextVersionStrategy) Name() string { return "ConfiguredNextVersion" }

func (s *ConfigNextVersionStrategy) GetBaseVersions(
	ctx *context.GitVersionContext,
	ec config.EffectiveConfiguration,
	explain bool,
) ([]BaseVersion, error) {
	var exp *Explanation
	if explain {
		exp = NewExplanation(s.Name())
	}

	nextVersion := ec.NextVersion
	source := "NextVersion in configuration file"
	field := "next-version"
	if nextVersion == "" {
		// base-version is a floor rather than an exact override, but in the
		// absence of next-version it still gives operators a way to seed a
		// starting point without a tag.
		nextVersion = ec.BaseVersion
		source = "BaseVersion in configuration file"
		field = "base-version"
	}
	if nextVersion == "" {
		exp.Add("neither next-version nor base-version configured, skipping")
		return nil, nil
	}

	if ctx.IsCurrentCommitTagged {
		exp.Addf("%s=%q but current commit is tagged, skipping", source, nextVersion)
		return nil, nil
	}

	// Both fields are bare version strings (no tag prefix).
	ver, err := semver.Parse(nextVersion, "")
	if err != nil {
		return nil, fmt.Errorf("parsing %s %q: %w", field, nextVersion, err)
	}

	exp.Addf("%s=%q parsed as %s", source, nextVersion, ver.SemVer())

	return []BaseVersion{{
		Source:          source,
		ShouldIncrement: false,
		SemanticVersion: ver,
		Explanation:     exp,
	}}, nil
}
