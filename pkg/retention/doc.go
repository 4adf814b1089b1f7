// Package retention implements the deployment selection engine.
//
// # Selection
//
// Select classifies one environment's deployment records into disjoint
// outcome buckets:
//
//   - Kept: retained this run
//   - Deleted: chosen for removal
//   - SkippedProtected: kept because of an alias or the active
//     production pin
//   - SkippedUndeletable: kept because the platform forbids deleting
//     the newest deployment of a preview branch
//
// The engine is a pure function: it never mutates its inputs, never reads
// the wall clock, and never calls collaborators. The age cutoff, if any,
// is precomputed by the caller, so selection is deterministic and
// testable without time mocking.
//
// # Policy
//
// Records are ordered newest first. Protection (alias or active
// production pin) is checked before anything else; protected records are
// always kept and tagged. The newest max(minKeep, maxKeep) records are
// unconditionally kept by position. Everything beyond that window is a
// candidate: candidates newer than or equal to the age cutoff are kept,
// the newest record of each known preview branch is kept and tagged
// undeletable, and the rest are deleted.
//
// # Basic Usage
//
//	bucket, considered := retention.Select(retention.Input{
//	    Environment:        deploy.EnvProduction,
//	    Deployments:        records,
//	    ActiveProductionID: activeID,
//	    MinKeep:            5,
//	    MaxKeep:            10,
//	    OlderThan:          time.Now().AddDate(0, 0, -30),
//	})
package retention
