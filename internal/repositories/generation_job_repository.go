package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"h3dstudio/internal/models"
)

var (
	ErrJobNotFound    = errors.New("generation not found")
	ErrResultNotFound = errors.New("generation result not found")
)

// GenerationJobRepository is the job record store. Jobs are keyed by their
// remote creation id and loaded together with their ordered results.
type GenerationJobRepository interface {
	FindOrCreateJob(ctx context.Context, creationID string) (*models.GenerationJob, error)
	GetJob(ctx context.Context, creationID string) (*models.GenerationJob, error)
	ListJobs(ctx context.Context, filter models.JobFilter) (*models.JobPage, error)
	SaveJob(ctx context.Context, job *models.GenerationJob) error
	RemoveJob(ctx context.Context, creationID string) error
	RemoveResult(ctx context.Context, creationID, taskID string) error
	SetResultFlags(ctx context.Context, creationID, taskID string, favorite, saved *bool) (*models.GenerationResult, error)
}

type generationJobRepository struct {
	db *gorm.DB
}

func NewGenerationJobRepository(db *gorm.DB) GenerationJobRepository {
	return &generationJobRepository{db: db}
}

func preloadResults(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func (r *generationJobRepository) FindOrCreateJob(ctx context.Context, creationID string) (*models.GenerationJob, error) {
	creationID = strings.TrimSpace(creationID)
	if creationID == "" {
		return nil, fmt.Errorf("creation id is required")
	}
	job, err := r.GetJob(ctx, creationID)
	if err != nil || job != nil {
		return job, err
	}

	job = models.NewGenerationJob(creationID)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "creation_id"}}, DoNothing: true}).
		Omit("Results").
		Create(job)
	if res.Error != nil {
		return nil, fmt.Errorf("creating generation %s: %w", creationID, res.Error)
	}
	if res.RowsAffected == 0 {
		// lost a race against another writer; use the stored row
		return r.GetJob(ctx, creationID)
	}
	return job, nil
}

func (r *generationJobRepository) GetJob(ctx context.Context, creationID string) (*models.GenerationJob, error) {
	var job models.GenerationJob
	err := r.db.WithContext(ctx).
		Preload("Results", preloadResults).
		Where("creation_id = ?", creationID).
		Take(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting generation %s: %w", creationID, err)
	}
	return &job, nil
}

func (r *generationJobRepository) ListJobs(ctx context.Context, filter models.JobFilter) (*models.JobPage, error) {
	f := filter.Normalize()
	byStatus := func(db *gorm.DB) *gorm.DB {
		if f.Status == models.StatusFilterAll {
			return db
		}
		return db.Where("status = ?", f.Status)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.GenerationJob{}).Scopes(byStatus).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting generations: %w", err)
	}
	if last := f.LastPage(total); f.Page > last {
		f.Page = last
	}

	order := "id desc"
	if f.Invert {
		order = "id asc"
	}
	var jobs []models.GenerationJob
	err := r.db.WithContext(ctx).
		Scopes(byStatus).
		Preload("Results", preloadResults).
		Order(order).
		Limit(f.PageSize).
		Offset(f.Page * f.PageSize).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	return &models.JobPage{Jobs: jobs, Page: f.Page, PageSize: f.PageSize, Total: total}, nil
}

// SaveJob writes the job and its current result set. Results that are no
// longer part of the job are deleted. The user-owned columns (result flags,
// list expansion) of rows that already exist are left to SetResultFlags and
// the UI, so a stale in-memory copy cannot overwrite them.
func (r *generationJobRepository) SaveJob(ctx context.Context, job *models.GenerationJob) error {
	if job == nil || job.CreationID == "" {
		return fmt.Errorf("generation with a creation id is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if job.ID == 0 {
			if err := tx.Omit("Results").Create(job).Error; err != nil {
				return fmt.Errorf("creating generation %s: %w", job.CreationID, err)
			}
		} else {
			if err := tx.Omit("Results", "ShowInUI", "ExpandInUI").Save(job).Error; err != nil {
				return fmt.Errorf("updating generation %s: %w", job.CreationID, err)
			}
			if err := deleteStaleResults(tx, job); err != nil {
				return err
			}
		}

		for i := range job.Results {
			res := &job.Results[i]
			res.JobID = job.ID
			var err error
			if res.ID == 0 {
				err = tx.Create(res).Error
			} else {
				err = tx.Omit("Favorite", "Saved").Save(res).Error
			}
			if err != nil {
				return fmt.Errorf("saving result %s of generation %s: %w", res.TaskID, job.CreationID, err)
			}
		}
		return nil
	})
}

func deleteStaleResults(tx *gorm.DB, job *models.GenerationJob) error {
	keep := make([]uint, 0, len(job.Results))
	for _, res := range job.Results {
		if res.ID != 0 {
			keep = append(keep, res.ID)
		}
	}
	q := tx.Where("job_id = ?", job.ID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	if err := q.Delete(&models.GenerationResult{}).Error; err != nil {
		return fmt.Errorf("pruning results of generation %s: %w", job.CreationID, err)
	}
	return nil
}

func (r *generationJobRepository) RemoveJob(ctx context.Context, creationID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		jobIDs := tx.Model(&models.GenerationJob{}).Select("id").Where("creation_id = ?", creationID)
		if err := tx.Where("job_id IN (?)", jobIDs).Delete(&models.GenerationResult{}).Error; err != nil {
			return fmt.Errorf("deleting results of generation %s: %w", creationID, err)
		}
		if err := tx.Where("creation_id = ?", creationID).Delete(&models.GenerationJob{}).Error; err != nil {
			return fmt.Errorf("deleting generation %s: %w", creationID, err)
		}
		return nil
	})
}

func (r *generationJobRepository) RemoveResult(ctx context.Context, creationID, taskID string) error {
	jobIDs := r.db.WithContext(ctx).Model(&models.GenerationJob{}).Select("id").Where("creation_id = ?", creationID)
	res := r.db.WithContext(ctx).
		Where("job_id IN (?) AND task_id = ?", jobIDs, taskID).
		Delete(&models.GenerationResult{})
	if res.Error != nil {
		return fmt.Errorf("deleting result %s of generation %s: %w", taskID, creationID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrResultNotFound
	}
	return nil
}

func (r *generationJobRepository) SetResultFlags(ctx context.Context, creationID, taskID string, favorite, saved *bool) (*models.GenerationResult, error) {
	job, err := r.GetJob(ctx, creationID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	res := job.Result(taskID, false)
	if res == nil {
		return nil, ErrResultNotFound
	}

	updates := map[string]interface{}{}
	if favorite != nil {
		res.Favorite = *favorite
		updates["favorite"] = *favorite
	}
	if saved != nil {
		res.Saved = *saved
		updates["saved"] = *saved
	}
	if len(updates) == 0 {
		return res, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.GenerationResult{}).Where("id = ?", res.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating flags of result %s: %w", taskID, err)
	}
	return res, nil
}
