package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dataroom/internal/blob"
	"dataroom/internal/config"
	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	"dataroom/internal/domain/repositories"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
	"dataroom/internal/domain/services"
	docstoreSvc "dataroom/internal/domain/services/docstore"
)

type dataroomService struct {
	dataroomRepo docstoreRepo.DataroomRepository
	fileRepo     docstoreRepo.FileRepository
	txManager    repositories.TransactionManager
	releaser     *blobReleaser
	audit        services.AuditRecorder
	logger       *slog.Logger
}

// NewDataroomService creates a new dataroom service
func NewDataroomService(
	dataroomRepo docstoreRepo.DataroomRepository,
	fileRepo docstoreRepo.FileRepository,
	txManager repositories.TransactionManager,
	blobs blob.Store,
	blobDeleteConcurrency int,
	audit services.AuditRecorder,
	logger *slog.Logger,
) docstoreSvc.DataroomService {
	return &dataroomService{
		dataroomRepo: dataroomRepo,
		fileRepo:     fileRepo,
		txManager:    txManager,
		releaser:     newBlobReleaser(blobs, blobDeleteConcurrency, logger),
		audit:        audit,
		logger:       logger,
	}
}

// CreateDataroom creates a new dataroom
func (s *dataroomService) CreateDataroom(ctx context.Context, req *docstoreSvc.CreateDataroomRequest) (*models.Dataroom, error) {
	normalized := docstoreSvc.CreateDataroomRequest{Name: strings.TrimSpace(req.Name)}
	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed != "" {
			normalized.Description = &trimmed
		}
	}
	req = &normalized

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now().UTC()
	dataroom := &models.Dataroom{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.dataroomRepo.GetByName(ctx, req.Name)
		if err == nil {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a dataroom named %q already exists", req.Name),
				ResourceType: "dataroom",
				ResourceID:   existing.ID,
			}
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to check for duplicate names: %w", err)
		}
		return s.dataroomRepo.Create(ctx, dataroom)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dataroom created",
		"id", dataroom.ID,
		"name", dataroom.Name,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "dataroom.create",
		DataroomID:   dataroom.ID,
		ResourceType: "dataroom",
		ResourceID:   dataroom.ID,
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"name": dataroom.Name},
	})

	return dataroom, nil
}

// GetDataroom retrieves a dataroom by ID
func (s *dataroomService) GetDataroom(ctx context.Context, id string) (*models.Dataroom, error) {
	return s.dataroomRepo.GetByID(ctx, id)
}

// ListDatarooms lists all datarooms newest first
func (s *dataroomService) ListDatarooms(ctx context.Context) ([]models.Dataroom, error) {
	return s.dataroomRepo.List(ctx)
}

// DeleteDataroom removes the dataroom rows in one transaction, then its blobs
func (s *dataroomService) DeleteDataroom(ctx context.Context, id string) error {
	var files []models.File
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.dataroomRepo.GetByID(ctx, id); err != nil {
			return err
		}
		var err error
		files, err = s.fileRepo.ListByDataroom(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list dataroom files: %w", err)
		}
		return s.dataroomRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	failed := s.releaser.Release(ctx, storagePaths(files))

	s.logger.Info("dataroom deleted",
		"id", id,
		"files", len(files),
		"blob_failures", failed,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "dataroom.delete",
		DataroomID:   id,
		ResourceType: "dataroom",
		ResourceID:   id,
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"files": len(files)},
	})

	return nil
}

// validateCreateRequest validates a dataroom creation request
func (s *dataroomService) validateCreateRequest(req *docstoreSvc.CreateDataroomRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxDataroomNameLength),
		),
		validation.Field(&req.Description,
			validation.RuneLength(0, config.MaxDataroomDescriptionLength),
		),
	)
}
