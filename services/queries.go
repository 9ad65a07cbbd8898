package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/reportaxial/reportaxial-api/models"
	"github.com/reportaxial/reportaxial-api/utils"
)

// supplierQueueOrder buckets the supplier's queue by how actionable each
// problem is, then by recency of activity within a bucket. This is the one
// documented ordering for the supplier projection.
const supplierQueueOrder = "CASE status WHEN 'pending' THEN 1 WHEN 'in_progress' THEN 2 WHEN 'resolved' THEN 3 ELSE 4 END, updated_at DESC"

// StoreQueue returns all problems owned by the caller's store, most
// recently updated first, each with its current formal response if any.
func (s *ProblemService) StoreQueue(ctx context.Context, caller Identity) ([]models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.StoreQueue")
	defer span.End()

	if err := requireRole(caller, models.RoleStore); err != nil {
		return nil, err
	}

	store, err := s.storeForUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	problems := []models.Problem{}
	err = s.db.WithContext(ctx).
		Where("store_id = ?", store.ID).
		Preload("Response").
		Preload("Response.Supplier").
		Order("updated_at DESC").
		Find(&problems).Error
	if err != nil {
		return nil, ErrInternal("Failed to fetch problems", err)
	}

	s.fillAttachmentURLs(problems)
	return problems, nil
}

// SupplierQueue returns every problem across all stores with the owning
// store's summary and the current formal response.
func (s *ProblemService) SupplierQueue(ctx context.Context, caller Identity) ([]models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.SupplierQueue")
	defer span.End()

	if err := requireRole(caller, models.RoleSupplier); err != nil {
		return nil, err
	}

	problems := []models.Problem{}
	err := s.db.WithContext(ctx).
		Preload("Store").
		Preload("Response").
		Preload("Response.Supplier").
		Order(supplierQueueOrder).
		Find(&problems).Error
	if err != nil {
		return nil, ErrInternal("Failed to fetch problems", err)
	}

	s.fillAttachmentURLs(problems)
	return problems, nil
}

// Detail returns a single problem with its store summary, formal response
// and the full conversation thread. Stores see only their own problems;
// reading never mutates lifecycle or visibility state.
func (s *ProblemService) Detail(ctx context.Context, caller Identity, problemID uint) (*models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.Detail")
	defer span.End()

	db := s.db.WithContext(ctx)

	// Ownership check against the bare row before loading the joins.
	bare, err := s.loadProblem(db, problemID)
	if err != nil {
		return nil, err
	}
	callerStoreID, err := s.callerStoreID(db, caller)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, OpViewProblem, bare.StoreID, callerStoreID); err != nil {
		return nil, err
	}

	var problem models.Problem
	err = db.
		Preload("Store").
		Preload("Response").
		Preload("Response.Supplier").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Messages.Sender").
		First(&problem, problemID).Error
	if err != nil {
		return nil, ErrInternal("Failed to fetch problem", err)
	}

	if problem.AttachmentS3Key != nil {
		if attachments := GetAttachmentService(); attachments != nil {
			if url, err := attachments.GetAttachmentURL(*problem.AttachmentS3Key); err == nil && url != "" {
				problem.AttachmentURL = &url
			}
		}
	}

	return &problem, nil
}

// fillAttachmentURLs computes presigned attachment URLs for a projection.
// Failures are skipped so a storage hiccup does not break reads.
func (s *ProblemService) fillAttachmentURLs(problems []models.Problem) {
	attachments := GetAttachmentService()
	if attachments == nil {
		return
	}
	for i := range problems {
		if problems[i].AttachmentS3Key == nil {
			continue
		}
		url, err := attachments.GetAttachmentURL(*problems[i].AttachmentS3Key)
		if err != nil || url == "" {
			continue
		}
		problems[i].AttachmentURL = &url
	}
}
