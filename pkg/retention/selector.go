package retention

import (
	"sort"
	"time"

	"deckhand-hq/deckhand/pkg/deploy"
)

// Input carries everything Select needs for one environment.
type Input struct {
	// Environment is the environment being cleaned. Records belonging to
	// other environments are ignored.
	Environment deploy.Environment

	// Deployments is the unordered record set; mixed environments are
	// allowed and filtered internally.
	Deployments []deploy.Deployment

	// ActiveProductionID, when non-empty and Environment is production,
	// pins the matching record against deletion.
	ActiveProductionID string

	// MinKeep and MaxKeep bound the auto-keep window. The effective
	// window is max(MinKeep, MaxKeep), so an inverted cap is tolerated.
	MinKeep int
	MaxKeep int

	// OlderThan, when non-zero, is the age cutoff: only records strictly
	// older than this instant are eligible for deletion.
	OlderThan time.Time
}

// Bucket is the classification of one environment's records.
// Kept and Deleted partition the filtered input; SkippedProtected and
// SkippedUndeletable are subsets of Kept.
type Bucket struct {
	Kept               []string
	Deleted            []string
	SkippedProtected   []string
	SkippedUndeletable []string
}

// Select classifies the records of in.Environment and returns the bucket
// plus the considered count: the number of records that were neither
// protected nor inside the auto-keep window, whether or not an age or
// branch exemption kept them afterwards.
//
// Ordering inside each bucket follows the newest-first sort; ties on
// CreatedAt keep their input order.
func Select(in Input) (Bucket, int) {
	filtered := make([]deploy.Deployment, 0, len(in.Deployments))
	for _, d := range in.Deployments {
		if d.Environment == in.Environment {
			filtered = append(filtered, d)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	keepCut := in.MaxKeep
	if in.MinKeep > keepCut {
		keepCut = in.MinKeep
	}

	// Newest record per branch, scanned over the full filtered list so the
	// newest deployment of a branch is found even when it sits inside the
	// auto-keep window.
	newestByBranch := make(map[string]string)
	for _, d := range filtered {
		if d.Branch == "" {
			continue
		}
		if _, seen := newestByBranch[d.Branch]; !seen {
			newestByBranch[d.Branch] = d.ID
		}
	}

	var bucket Bucket
	considered := 0

	for i, d := range filtered {
		if isProtected(d, in.Environment, in.ActiveProductionID) {
			bucket.Kept = append(bucket.Kept, d.ID)
			bucket.SkippedProtected = append(bucket.SkippedProtected, d.ID)
			continue
		}

		if i < keepCut {
			bucket.Kept = append(bucket.Kept, d.ID)
			continue
		}

		considered++

		// Age exemption: a record at or after the cutoff is not old
		// enough to delete.
		if !in.OlderThan.IsZero() && !d.CreatedAt.Before(in.OlderThan) {
			bucket.Kept = append(bucket.Kept, d.ID)
			continue
		}

		// The platform refuses to delete the newest deployment of a
		// preview branch. Records with no branch information never get
		// this exemption.
		if in.Environment == deploy.EnvPreview && d.Branch != "" && newestByBranch[d.Branch] == d.ID {
			bucket.Kept = append(bucket.Kept, d.ID)
			bucket.SkippedUndeletable = append(bucket.SkippedUndeletable, d.ID)
			continue
		}

		bucket.Deleted = append(bucket.Deleted, d.ID)
	}

	return bucket, considered
}

// isProtected reports whether the record is pinned: it carries an alias,
// or it is the active production deployment in the production environment.
func isProtected(d deploy.Deployment, env deploy.Environment, activeProductionID string) bool {
	if d.HasAliases() {
		return true
	}
	return env == deploy.EnvProduction && activeProductionID != "" && d.ID == activeProductionID
}
