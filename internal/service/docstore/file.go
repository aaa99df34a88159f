package docstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"dataroom/internal/blob"
	"dataroom/internal/config"
	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	"dataroom/internal/domain/repositories"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
	"dataroom/internal/domain/services"
	docstoreSvc "dataroom/internal/domain/services/docstore"
)

type fileService struct {
	fileRepo  docstoreRepo.FileRepository
	txManager repositories.TransactionManager
	validator *ResourceValidator
	blobs     blob.Store
	releaser  *blobReleaser
	audit     services.AuditRecorder
	logger    *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo docstoreRepo.FileRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	blobs blob.Store,
	audit services.AuditRecorder,
	logger *slog.Logger,
) docstoreSvc.FileService {
	return &fileService{
		fileRepo:  fileRepo,
		txManager: txManager,
		validator: validator,
		blobs:     blobs,
		releaser:  newBlobReleaser(blobs, 1, logger),
		audit:     audit,
		logger:    logger,
	}
}

// UploadFile stores the bytes first and records metadata second.
// When the metadata insert fails the blob is removed again.
func (s *fileService) UploadFile(ctx context.Context, req *docstoreSvc.UploadFileRequest) (*models.File, error) {
	if req.Content == nil {
		return nil, &domain.ValidationError{Message: "file content is required"}
	}

	if _, err := s.validator.ValidateDataroom(ctx, req.DataroomID); err != nil {
		return nil, err
	}
	folder, err := s.validator.ValidateFolderInDataroom(ctx, req.FolderID, req.DataroomID)
	if err != nil {
		return nil, err
	}

	filename := SanitizeFilename(req.Filename)
	if filename == "" {
		return nil, &domain.ValidationError{Message: "filename is empty after sanitization"}
	}
	if !isPDF(filename, req.ContentType) {
		return nil, &domain.ValidationError{Message: "only PDF files are accepted"}
	}

	checksum, err := checksumSHA256(req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum upload: %w", err)
	}

	locator := newLocator(folder.DataroomID, folder.ID, filename)
	size, err := s.blobs.Put(ctx, locator, req.Content)
	if err != nil {
		s.releaser.Release(ctx, []string{locator})
		return nil, &domain.StorageError{Message: "failed to store file content", Locator: locator, Err: err}
	}

	uploader := req.UploadedByID
	if uploader == nil {
		uploader = services.ActorID(ctx)
	}

	var file *models.File
	err = retryOnConflict(ctx, s.txManager, s.logger, "upload file", func(ctx context.Context) error {
		siblings, err := s.fileRepo.ListByFolder(ctx, folder.ID)
		if err != nil {
			return fmt.Errorf("failed to list sibling files: %w", err)
		}

		now := time.Now().UTC()
		file = &models.File{
			DataroomID:       folder.DataroomID,
			FolderID:         folder.ID,
			Name:             ResolveUniqueName(filename, fileNames(siblings, ""), config.MaxFileNameLength),
			OriginalFilename: filename,
			ContentType:      models.PDFContentType,
			SizeBytes:        size,
			StoragePath:      locator,
			Checksum:         &checksum,
			Version:          1,
			UploadedByID:     uploader,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return s.fileRepo.Create(ctx, file)
	})
	if err != nil {
		s.releaser.Release(ctx, []string{locator})
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"folder_id", file.FolderID,
		"dataroom_id", file.DataroomID,
		"size_bytes", file.SizeBytes,
		"checksum_sha256", checksum,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "file.upload",
		DataroomID:   file.DataroomID,
		ResourceType: "file",
		ResourceID:   file.ID,
		ActorID:      uploader,
		Details:      map[string]any{"name": file.Name, "size_bytes": file.SizeBytes},
	})

	return file, nil
}

// GetFile retrieves file metadata by ID
func (s *fileService) GetFile(ctx context.Context, id string) (*models.File, error) {
	return s.fileRepo.GetByID(ctx, id)
}

// PhysicalLocation returns where the blob store keeps the file's bytes
func (s *fileService) PhysicalLocation(file *models.File) string {
	return file.StoragePath
}

// OpenContent returns the file row and a reader over its bytes
func (s *fileService) OpenContent(ctx context.Context, id string) (*models.File, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, file.StoragePath)
	if err != nil {
		msg := "failed to read file content"
		if errors.Is(err, blob.ErrBlobNotFound) {
			msg = "file content is missing from storage"
		}
		return nil, nil, &domain.StorageError{Message: msg, Locator: file.StoragePath, Err: err}
	}

	return file, rc, nil
}

// RenameFile changes the visible name within the folder. The blob is untouched.
func (s *fileService) RenameFile(ctx context.Context, id, name string) (*models.File, error) {
	sanitized := SanitizeRename(name)
	if sanitized == "" {
		return nil, &domain.ValidationError{Message: "filename is empty after sanitization"}
	}

	var (
		file    *models.File
		oldName string
	)
	err := retryOnConflict(ctx, s.txManager, s.logger, "rename file", func(ctx context.Context) error {
		var err error
		file, err = s.fileRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		oldName = file.Name

		siblings, err := s.fileRepo.ListByFolder(ctx, file.FolderID)
		if err != nil {
			return fmt.Errorf("failed to list sibling files: %w", err)
		}

		resolved := ResolveUniqueName(sanitized, fileNames(siblings, file.ID), config.MaxFileNameLength)
		if resolved == file.Name {
			return nil
		}

		file.Name = resolved
		file.UpdatedAt = time.Now().UTC()
		return s.fileRepo.Update(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	if file.Name == oldName {
		return file, nil
	}

	s.logger.Info("file renamed",
		"id", file.ID,
		"old_name", oldName,
		"name", file.Name,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "file.rename",
		DataroomID:   file.DataroomID,
		ResourceType: "file",
		ResourceID:   file.ID,
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"old_name": oldName, "name": file.Name},
	})

	return file, nil
}

// DeleteFile removes the blob, then the row. A blob failure is logged and
// does not stop the row delete.
func (s *fileService) DeleteFile(ctx context.Context, id string) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	failed := s.releaser.Release(ctx, []string{file.StoragePath})

	if err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		return s.fileRepo.Delete(ctx, file.ID)
	}); err != nil {
		return err
	}

	s.logger.Info("file deleted",
		"id", file.ID,
		"name", file.Name,
		"folder_id", file.FolderID,
		"blob_failures", failed,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "file.delete",
		DataroomID:   file.DataroomID,
		ResourceType: "file",
		ResourceID:   file.ID,
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"name": file.Name},
	})

	return nil
}

// checksumSHA256 hashes r in fixed-size chunks and rewinds it
func checksumSHA256(r io.ReadSeeker) (string, error) {
	h := sha256.New()
	buf := make([]byte, config.HashChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// newLocator builds datarooms/<dataroom>/<folder>/<uuid hex><ext>
func newLocator(dataroomID, folderID, sanitized string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("datarooms/%s/%s/%s%s", dataroomID, folderID, id, blobExtension(sanitized))
}
