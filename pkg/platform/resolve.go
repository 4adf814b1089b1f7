package platform

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"deckhand-hq/deckhand/pkg/deploy"
)

// ActiveProductionResolver supplies the authoritative live production
// deployment identifier. *Client implements it.
type ActiveProductionResolver interface {
	ActiveProductionID(ctx context.Context) (string, error)
}

// successStatuses are the build stage statuses treated as a successful
// deployment by the fallback heuristic.
var successStatuses = map[string]bool{
	"success":   true,
	"succeeded": true,
	"ready":     true,
	"active":    true,
}

// ResolveActiveProduction determines the deployment currently serving
// production traffic.
//
// It asks the platform first. When the platform has no answer (or the
// call fails), it falls back to a heuristic over the given records: the
// newest production deployment whose build status indicates success,
// else the newest production deployment, else none (empty string).
func ResolveActiveProduction(ctx context.Context, resolver ActiveProductionResolver, deployments []deploy.Deployment) string {
	logger := slog.Default().With("component", "platform.resolve")

	if resolver != nil {
		id, err := resolver.ActiveProductionID(ctx)
		if err != nil {
			logger.Warn("active production lookup failed, falling back to heuristic", "error", err)
		} else if id != "" {
			logger.Debug("active production resolved by platform", "id", id)
			return id
		}
	}

	production := make([]deploy.Deployment, 0, len(deployments))
	for _, d := range deployments {
		if d.Environment == deploy.EnvProduction {
			production = append(production, d)
		}
	}
	if len(production) == 0 {
		return ""
	}

	sort.SliceStable(production, func(i, j int) bool {
		return production[i].CreatedAt.After(production[j].CreatedAt)
	})

	for _, d := range production {
		if successStatuses[strings.ToLower(d.BuildStatus)] {
			logger.Debug("active production resolved by heuristic", "id", d.ID, "build_status", d.BuildStatus)
			return d.ID
		}
	}

	logger.Debug("no successful production build, using newest", "id", production[0].ID)
	return production[0].ID
}
