package service

import (
	"sort"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

// ConflictPair is one unordered pair of colliding selections.
type ConflictPair struct {
	A models.SelectedUnit `json:"a"`
	B models.SelectedUnit `json:"b"`
}

// DetectConflicts computes the symmetric conflict relation over the given
// selections with a pairwise scan. Self-pairs are never compared; the relation
// is recomputed fresh on every call so it can never go stale. n is bounded by
// how many slots a student can realistically select, so O(n²) is fine.
func DetectConflicts(units []models.SelectedUnit) []ConflictPair {
	var pairs []ConflictPair
	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			if models.Collides(units[i].SlotTime(), units[j].SlotTime()) {
				pairs = append(pairs, ConflictPair{A: units[i], B: units[j]})
			}
		}
	}
	return pairs
}

// ConflictIdentMap folds the conflict relation into a map from course ID to
// the idents of courses it collides with. Two overlapping slots of the same
// course report the course against itself.
func ConflictIdentMap(units []models.SelectedUnit) map[string]map[string]bool {
	result := make(map[string]map[string]bool)
	for _, pair := range DetectConflicts(units) {
		addConflict(result, pair.A.CourseID, pair.B.CourseIdent)
		addConflict(result, pair.B.CourseID, pair.A.CourseIdent)
	}
	return result
}

func addConflict(m map[string]map[string]bool, courseID, ident string) {
	if m[courseID] == nil {
		m[courseID] = make(map[string]bool)
	}
	m[courseID][ident] = true
}

func sortedIdents(set map[string]bool) []string {
	idents := make([]string, 0, len(set))
	for ident := range set {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	return idents
}
