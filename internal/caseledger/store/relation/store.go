// Package relation indexes cross-case references so a claim can find the
// acceleration and change-order cases that build on it.
package relation

import (
	"sort"

	"koe/internal/caseledger/models"
)

func sortRelations(rs []models.Relation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		}
		if rs[i].SourceCaseID != rs[j].SourceCaseID {
			return rs[i].SourceCaseID < rs[j].SourceCaseID
		}
		return rs[i].TargetCaseID < rs[j].TargetCaseID
	})
}
