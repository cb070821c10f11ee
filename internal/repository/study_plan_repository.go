package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

// StudyPlanRepository loads study plans for the schedule generator.
type StudyPlanRepository struct {
	db *sqlx.DB
}

// NewStudyPlanRepository creates a study plan repository.
func NewStudyPlanRepository(db *sqlx.DB) *StudyPlanRepository {
	return &StudyPlanRepository{db: db}
}

// GetPlan loads a plan with its course list ordered by plan position.
func (r *StudyPlanRepository) GetPlan(ctx context.Context, id string) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	if err := r.db.GetContext(ctx, &plan, "SELECT id, name FROM study_plans WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get study plan: %w", err)
	}

	query := "SELECT ident, category, position FROM study_plan_courses WHERE study_plan_id = $1 ORDER BY position ASC"
	if err := r.db.SelectContext(ctx, &plan.Courses, query, id); err != nil {
		return nil, fmt.Errorf("get study plan courses: %w", err)
	}
	return &plan, nil
}

// ListPlans returns all plans without their course lists.
func (r *StudyPlanRepository) ListPlans(ctx context.Context) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	if err := r.db.SelectContext(ctx, &plans, "SELECT id, name FROM study_plans ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list study plans: %w", err)
	}
	return plans, nil
}
