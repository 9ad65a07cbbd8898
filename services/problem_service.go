package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reportaxial/reportaxial-api/models"
	"github.com/reportaxial/reportaxial-api/utils"
)

// orderDateLayout is the wire format for the optional order date on a
// problem report.
const orderDateLayout = "2006-01-02"

// ProblemService owns the problem lifecycle: status transitions, per-side
// visibility flags, the formal response slot and the conversation thread.
// Every mutating operation runs inside a single transaction so concurrent
// readers never observe a half-updated problem.
type ProblemService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProblemService creates a new problem service bound to the given
// database handle.
func NewProblemService(db *gorm.DB) *ProblemService {
	return &ProblemService{
		db:     db,
		logger: utils.GetLogger(),
	}
}

// CreateProblemInput carries the fields a store submits when reporting a
// problem. Title classifies the issue; everything else is free text.
type CreateProblemInput struct {
	Title         string `json:"title"`
	Description   string `json:"description" binding:"required"`
	OrderDate     string `json:"order_date,omitempty"`
	SupplierOrder string `json:"supplier_order,omitempty"`
	Product       string `json:"product,omitempty"`
	Eurocode      string `json:"eurocode,omitempty"`
	Observations  string `json:"observations,omitempty"`
	Priority      string `json:"priority,omitempty"`
}

// CreateProblem reports a new problem for the caller's store. The problem
// starts pending, unseen by the supplier side.
func (s *ProblemService) CreateProblem(ctx context.Context, caller Identity, input CreateProblemInput) (*models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.CreateProblem")
	defer span.End()

	if err := authorize(caller, OpCreateProblem, 0, 0); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrInvalidInput("Description must not be empty")
	}

	var orderDate *time.Time
	if input.OrderDate != "" {
		parsed, err := time.Parse(orderDateLayout, input.OrderDate)
		if err != nil {
			return nil, ErrInvalidInput("Order date must use the YYYY-MM-DD format")
		}
		orderDate = &parsed
	}

	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = models.PriorityNormal
	}

	store, err := s.storeForUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	problem := models.Problem{
		StoreID:       store.ID,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		OrderDate:     orderDate,
		SupplierOrder: input.SupplierOrder,
		Product:       input.Product,
		Eurocode:      input.Eurocode,
		Observations:  input.Observations,
		Priority:      priority,
		Status:        models.StatusPending,
		// The reporting side has seen its own report; the supplier has not.
		ViewedByStore:    true,
		ViewedBySupplier: false,
	}

	if err := s.db.WithContext(ctx).Create(&problem).Error; err != nil {
		return nil, ErrInternal("Failed to create problem", err)
	}

	if err := s.db.WithContext(ctx).Preload("Store").First(&problem, problem.ID).Error; err != nil {
		return nil, ErrInternal("Failed to load problem details", err)
	}

	utils.ProblemsCreatedTotal.Inc()
	s.logger.Info("Problem created",
		zap.Uint("problem_id", problem.ID),
		zap.Uint("store_id", store.ID),
		zap.String("priority", problem.Priority))

	return &problem, nil
}

// UpdateObservations edits the free-text observations of a problem owned by
// the caller's store. Editing never changes the status; it only refreshes
// the update timestamp.
func (s *ProblemService) UpdateObservations(ctx context.Context, caller Identity, problemID uint, observations string) (*models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.UpdateObservations")
	defer span.End()

	var problem models.Problem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := s.loadProblem(tx, problemID)
		if err != nil {
			return err
		}

		callerStoreID, err := s.callerStoreID(tx, caller)
		if err != nil {
			return err
		}
		if err := authorize(caller, OpEditProblem, loaded.StoreID, callerStoreID); err != nil {
			return err
		}

		if err := tx.Model(loaded).Update("observations", observations).Error; err != nil {
			return ErrInternal("Failed to update problem", err)
		}

		problem = *loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &problem, nil
}

// MarkViewed records that the caller's side has seen the problem's latest
// activity. A supplier opening a pending problem also advances it to
// in_progress, once.
func (s *ProblemService) MarkViewed(ctx context.Context, caller Identity, problemID uint) (*models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.MarkViewed")
	defer span.End()

	var problem models.Problem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := s.loadProblem(tx, problemID)
		if err != nil {
			return err
		}

		callerStoreID, err := s.callerStoreID(tx, caller)
		if err != nil {
			return err
		}
		if err := authorize(caller, OpMarkViewed, loaded.StoreID, callerStoreID); err != nil {
			return err
		}

		flag := "viewed_by_store"
		if caller.Role == models.RoleSupplier {
			flag = "viewed_by_supplier"
		}
		if err := tx.Model(loaded).Update(flag, true).Error; err != nil {
			return ErrInternal("Failed to mark problem as viewed", err)
		}

		if caller.Role == models.RoleSupplier {
			if _, err := s.maybeAdvanceFromPending(tx, problemID); err != nil {
				return err
			}
		}

		refreshed, err := s.loadProblem(tx, problemID)
		if err != nil {
			return err
		}
		problem = *refreshed
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &problem, nil
}

// Resolve forces a problem to resolved. Only suppliers may resolve, and
// resolving an already-resolved problem is a no-op, not an error.
func (s *ProblemService) Resolve(ctx context.Context, caller Identity, problemID uint) (*models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.Resolve")
	defer span.End()

	var problem models.Problem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := s.loadProblem(tx, problemID)
		if err != nil {
			return err
		}

		if err := authorize(caller, OpResolve, loaded.StoreID, 0); err != nil {
			return err
		}

		if err := tx.Model(loaded).Update("status", models.StatusResolved).Error; err != nil {
			return ErrInternal("Failed to resolve problem", err)
		}

		problem = *loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.ProblemsResolvedTotal.Inc()
	s.logger.Info("Problem resolved",
		zap.Uint("problem_id", problemID),
		zap.Uint("supplier_user_id", caller.UserID))

	return &problem, nil
}

// UpsertResponse records the supplier's formal reply to a problem. The
// latest reply always wins: a second call replaces the existing row instead
// of appending. A reply to a pending problem advances it to in_progress.
// Responses never touch the visibility flags; only thread messages and
// explicit mark-viewed calls do.
func (s *ProblemService) UpsertResponse(ctx context.Context, caller Identity, problemID uint, text string) (*models.Response, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.UpsertResponse")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput("Response text must not be empty")
	}

	var response models.Response
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := s.loadProblem(tx, problemID)
		if err != nil {
			return err
		}

		if err := authorize(caller, OpRespond, loaded.StoreID, 0); err != nil {
			return err
		}

		supplier, err := s.supplierForUser(tx, caller.UserID)
		if err != nil {
			return err
		}

		// Single conditional write keyed on problem_id: concurrent first
		// replies cannot create duplicate rows.
		row := models.Response{
			ProblemID:    problemID,
			SupplierID:   supplier.ID,
			ResponseText: text,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "problem_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"supplier_id":   supplier.ID,
				"response_text": text,
				"updated_at":    time.Now(),
			}),
		}).Create(&row).Error
		if err != nil {
			return ErrInternal("Failed to save response", err)
		}

		if _, err := s.maybeAdvanceFromPending(tx, problemID); err != nil {
			return err
		}

		// Keep the problem's update timestamp in step with its response.
		if err := tx.Model(loaded).Update("updated_at", time.Now()).Error; err != nil {
			return ErrInternal("Failed to update problem", err)
		}

		if err := tx.Where("problem_id = ?", problemID).Preload("Supplier").First(&response).Error; err != nil {
			return ErrInternal("Failed to load response details", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.ResponsesUpsertedTotal.Inc()
	s.logger.Info("Response saved",
		zap.Uint("problem_id", problemID),
		zap.Uint("response_id", response.ID))

	return &response, nil
}

// PostMessage appends a message to a problem's conversation thread and
// flags the other side's view as stale.
func (s *ProblemService) PostMessage(ctx context.Context, caller Identity, problemID uint, text string) (*models.Message, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.PostMessage")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput("Message text must not be empty")
	}

	var message models.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := s.loadProblem(tx, problemID)
		if err != nil {
			return err
		}

		callerStoreID, err := s.callerStoreID(tx, caller)
		if err != nil {
			return err
		}
		if err := authorize(caller, OpPostMessage, loaded.StoreID, callerStoreID); err != nil {
			return err
		}

		message = models.Message{
			ProblemID:  problemID,
			SenderID:   caller.UserID,
			AuthorRole: caller.Role,
			Text:       text,
		}
		if err := tx.Create(&message).Error; err != nil {
			return ErrInternal("Failed to create message", err)
		}

		// New activity from one side is unseen by the other, regardless of
		// the flag's prior value.
		otherFlag := "viewed_by_supplier"
		if caller.Role == models.RoleSupplier {
			otherFlag = "viewed_by_store"
		}
		if err := tx.Model(loaded).Update(otherFlag, false).Error; err != nil {
			return ErrInternal("Failed to update problem visibility", err)
		}

		if err := tx.Preload("Sender").First(&message, message.ID).Error; err != nil {
			return ErrInternal("Failed to load message details", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.MessagesPostedTotal.WithLabelValues(caller.Role).Inc()

	return &message, nil
}

// ListMessages returns the full conversation thread for a problem in
// insertion order.
func (s *ProblemService) ListMessages(ctx context.Context, caller Identity, problemID uint) ([]models.Message, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.ListMessages")
	defer span.End()

	db := s.db.WithContext(ctx)
	problem, err := s.loadProblem(db, problemID)
	if err != nil {
		return nil, err
	}

	callerStoreID, err := s.callerStoreID(db, caller)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, OpListMessages, problem.StoreID, callerStoreID); err != nil {
		return nil, err
	}

	messages := []models.Message{}
	err = db.Where("problem_id = ?", problemID).
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, ErrInternal("Failed to fetch messages", err)
	}

	return messages, nil
}

// AttachFile uploads an attachment for a problem owned by the caller's
// store and records its storage key, replacing any previous attachment.
func (s *ProblemService) AttachFile(ctx context.Context, caller Identity, problemID uint, fileHeader *multipart.FileHeader) (*models.Problem, error) {
	ctx, span := utils.StartSpan(ctx, "ProblemService.AttachFile")
	defer span.End()

	attachments := GetAttachmentService()
	if attachments == nil {
		return nil, ErrInternal("Attachment storage is not configured", nil)
	}

	db := s.db.WithContext(ctx)
	problem, err := s.loadProblem(db, problemID)
	if err != nil {
		return nil, err
	}

	callerStoreID, err := s.callerStoreID(db, caller)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, OpAttachFile, problem.StoreID, callerStoreID); err != nil {
		return nil, err
	}

	if err := utils.ValidateAttachmentFile(fileHeader); err != nil {
		var invalid *utils.AttachmentError
		if errors.As(err, &invalid) {
			return nil, ErrInvalidInput(invalid.Message)
		}
		return nil, ErrInvalidInput("Invalid attachment")
	}

	key, err := attachments.UploadAttachment(problemID, fileHeader)
	if err != nil {
		return nil, ErrInternal("Failed to upload attachment", err)
	}

	previous := problem.AttachmentS3Key
	if err := db.Model(problem).Update("attachment_s3_key", key).Error; err != nil {
		return nil, ErrInternal("Failed to record attachment", err)
	}

	if previous != nil && *previous != key {
		if err := attachments.DeleteAttachment(*previous); err != nil {
			s.logger.Warn("Failed to delete replaced attachment",
				zap.Uint("problem_id", problemID),
				zap.String("s3_key", *previous),
				zap.Error(err))
		}
	}

	url, err := attachments.GetAttachmentURL(key)
	if err != nil {
		s.logger.Warn("Failed to presign attachment URL",
			zap.Uint("problem_id", problemID),
			zap.Error(err))
	} else if url != "" {
		problem.AttachmentURL = &url
	}

	utils.AttachmentsUploadedTotal.Inc()
	s.logger.Info("Attachment uploaded",
		zap.Uint("problem_id", problemID),
		zap.String("s3_key", key))

	return problem, nil
}

// maybeAdvanceFromPending is the single transition primitive for the
// pending -> in_progress edge. Both the first formal response and the
// supplier's first mark-viewed funnel through it. The conditional UPDATE
// makes the check-then-act atomic: under concurrent callers at most one
// write flips the status and the rest match zero rows.
func (s *ProblemService) maybeAdvanceFromPending(tx *gorm.DB, problemID uint) (bool, error) {
	result := tx.Model(&models.Problem{}).
		Where("id = ? AND status = ?", problemID, models.StatusPending).
		Update("status", models.StatusInProgress)
	if result.Error != nil {
		return false, ErrInternal("Failed to advance problem status", result.Error)
	}

	advanced := result.RowsAffected > 0
	if advanced {
		utils.ProblemsAdvancedTotal.Inc()
		s.logger.Info("Problem advanced to in_progress", zap.Uint("problem_id", problemID))
	}
	return advanced, nil
}

// loadProblem fetches a problem by ID or reports NotFound.
func (s *ProblemService) loadProblem(tx *gorm.DB, problemID uint) (*models.Problem, error) {
	var problem models.Problem
	if err := tx.First(&problem, problemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Problem not found")
		}
		return nil, ErrInternal("Failed to fetch problem", err)
	}
	return &problem, nil
}

// storeForUser resolves the store profile behind a store user account.
func (s *ProblemService) storeForUser(ctx context.Context, userID uint) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Store profile not found")
		}
		return nil, ErrInternal("Failed to fetch store profile", err)
	}
	return &store, nil
}

// supplierForUser resolves the supplier profile behind a supplier user
// account.
func (s *ProblemService) supplierForUser(tx *gorm.DB, userID uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := tx.Where("user_id = ?", userID).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Supplier profile not found")
		}
		return nil, ErrInternal("Failed to fetch supplier profile", err)
	}
	return &supplier, nil
}

// callerStoreID resolves the caller's store ID for ownership checks.
// Non-store roles have no store; the gate never compares their IDs.
func (s *ProblemService) callerStoreID(tx *gorm.DB, caller Identity) (uint, error) {
	if caller.Role != models.RoleStore {
		return 0, nil
	}
	var store models.Store
	if err := tx.Where("user_id = ?", caller.UserID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound("Store profile not found")
		}
		return 0, ErrInternal("Failed to fetch store profile", err)
	}
	return store.ID, nil
}
