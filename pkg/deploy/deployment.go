package deploy

import (
	"fmt"
	"time"
)

// Environment identifies which environment a deployment belongs to.
type Environment string

const (
	// EnvProduction is the live production environment.
	EnvProduction Environment = "production"
	// EnvPreview is the per-branch preview environment.
	EnvPreview Environment = "preview"
)

// ParseEnvironment converts a string into an Environment.
// Only "production" and "preview" are valid.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvProduction:
		return EnvProduction, nil
	case EnvPreview:
		return EnvPreview, nil
	default:
		return "", fmt.Errorf("unknown environment %q (must be %q or %q)",
			s, EnvProduction, EnvPreview)
	}
}

// Deployment is one historical deployment record tracked by the hosting
// platform. Records are immutable once fetched; the retention engine only
// reads them.
type Deployment struct {
	// ID is the opaque unique identifier assigned by the platform.
	ID string

	// CreatedAt is the creation instant (UTC). Used for ordering and
	// age comparison only.
	CreatedAt time.Time

	// Environment is the environment the deployment was created in.
	Environment Environment

	// Aliases are custom hostnames bound to the deployment. A deployment
	// with at least one alias is pinned and must never be deleted.
	Aliases []string

	// Branch is the source branch the deployment was built from.
	// Empty when unknown; only preview deployments carry one.
	Branch string

	// BuildStatus is the last known build stage status. Used only by the
	// active-production heuristic, never by selection itself.
	BuildStatus string
}

// HasAliases reports whether the deployment has at least one alias bound.
func (d Deployment) HasAliases() bool {
	return len(d.Aliases) > 0
}

// Validate checks that the record carries the fields selection depends on.
func (d Deployment) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("deployment missing id")
	}
	if d.CreatedAt.IsZero() {
		return fmt.Errorf("deployment %q missing created_at", d.ID)
	}
	if _, err := ParseEnvironment(string(d.Environment)); err != nil {
		return fmt.Errorf("deployment %q: %w", d.ID, err)
	}
	return nil
}
