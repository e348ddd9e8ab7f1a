package repos

import (
	"gorm.io/gorm"

	"github.com/petuhovskiy/wsample/internal/models"
)

type RunRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) *RunRepo {
	return &RunRepo{
		db: db,
	}
}

// Save run to the database, together with its outcomes.
func (r *RunRepo) Save(run *models.Run) error {
	return r.db.Save(run).Error
}

// Update result fields after the run was finished.
func (r *RunRepo) FinishSaveResult(run *models.Run, upd *models.RunResult) error {
	return r.db.Model(run).Updates(upd).Error
}

// Attach per-item outcomes to a saved run.
func (r *RunRepo) SaveOutcomes(run *models.Run, outcomes []models.Outcome) error {
	for i := range outcomes {
		outcomes[i].RunID = run.ID
	}
	return r.db.Create(&outcomes).Error
}

func (r *RunRepo) FetchLastRuns(filters []Filter, limit int) ([]models.Run, error) {
	query := r.db.Preload("Outcomes")
	for _, filter := range filters {
		query = filter.Apply(query)
	}

	var runs []models.Run
	err := query.
		Order("id DESC").
		Limit(limit).
		Find(&runs).
		Error

	return runs, err
}
