package platform

import (
	"fmt"
	"time"

	"deckhand-hq/deckhand/pkg/deploy"
)

// deploymentPayload is the wire shape of one deployment record as the
// platform API returns it. It is decoded strictly into deploy.Deployment
// at this boundary; nothing loosely typed crosses into the core.
type deploymentPayload struct {
	ID          string   `json:"id"`
	CreatedAt   string   `json:"created_at"`
	Environment string   `json:"environment"`
	Aliases     []string `json:"aliases"`

	DeploymentTrigger struct {
		Metadata struct {
			Branch string `json:"branch"`
		} `json:"metadata"`
	} `json:"deployment_trigger"`

	LatestStage struct {
		Status string `json:"status"`
	} `json:"latest_stage"`
}

// listResponse is the paginated envelope of the deployment listing endpoint.
type listResponse struct {
	Deployments []deploymentPayload `json:"deployments"`
	Page        int                 `json:"page"`
	TotalPages  int                 `json:"total_pages"`
}

// projectResponse is the project detail endpoint, carrying the
// authoritative live production deployment when the platform knows it.
type projectResponse struct {
	Name                string `json:"name"`
	CanonicalDeployment struct {
		ID string `json:"id"`
	} `json:"canonical_deployment"`
}

// errorResponse is the platform's error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// toDeployment converts a wire payload into a validated Deployment.
// Missing required fields or an unparseable timestamp produce a
// DecodeError rather than a half-formed record.
func (p deploymentPayload) toDeployment() (deploy.Deployment, error) {
	if p.ID == "" {
		return deploy.Deployment{}, &DecodeError{Field: "id", Cause: fmt.Errorf("missing")}
	}
	if p.CreatedAt == "" {
		return deploy.Deployment{}, &DecodeError{Field: "created_at", Cause: fmt.Errorf("missing on deployment %q", p.ID)}
	}
	createdAt, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return deploy.Deployment{}, &DecodeError{Field: "created_at", Cause: err}
	}
	env, err := deploy.ParseEnvironment(p.Environment)
	if err != nil {
		return deploy.Deployment{}, &DecodeError{Field: "environment", Cause: err}
	}

	return deploy.Deployment{
		ID:          p.ID,
		CreatedAt:   createdAt.UTC(),
		Environment: env,
		Aliases:     p.Aliases,
		Branch:      p.DeploymentTrigger.Metadata.Branch,
		BuildStatus: p.LatestStage.Status,
	}, nil
}
