package models

import (
	"fmt"
	"time"
)

// Relation is a directed reference from Source (the acceleration or change
// order case) to Target (the claim it builds on). Unique per
// (Source, Target, Kind); rows are only ever inserted.
type Relation struct {
	SourceCaseID string       `json:"source_case_id"`
	TargetCaseID string       `json:"target_case_id"`
	Kind         RelationKind `json:"kind"`
	EventID      string       `json:"event_id"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Key identifies the relation independent of the event that introduced it.
func (r Relation) Key() RelationKey {
	return RelationKey{Source: r.SourceCaseID, Target: r.TargetCaseID, Kind: r.Kind}
}

// RelationKey is the uniqueness key of a relation.
type RelationKey struct {
	Source string
	Target string
	Kind   RelationKind
}

// Validate checks that r names two distinct cases and a known kind.
func (r Relation) Validate() error {
	if r.SourceCaseID == "" || r.TargetCaseID == "" {
		return fmt.Errorf("relation needs source and target case ids")
	}
	if r.SourceCaseID == r.TargetCaseID {
		return fmt.Errorf("case %s cannot relate to itself", r.SourceCaseID)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("unknown relation kind %q", r.Kind)
	}
	return nil
}
