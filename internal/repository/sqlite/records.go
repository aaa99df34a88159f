package sqlite

import (
	"time"

	models "dataroom/internal/domain/models/docstore"
)

// Dataroom is the gorm record for the datarooms table
type Dataroom struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Folder is the gorm record for the folders table
type Folder struct {
	ID         string `gorm:"primaryKey"`
	DataroomID string
	ParentID   *string
	Name       string
	Path       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// File is the gorm record for the files table
type File struct {
	ID               string `gorm:"primaryKey"`
	DataroomID       string
	FolderID         string
	Name             string
	OriginalFilename string
	ContentType      string
	SizeBytes        int64
	StoragePath      string
	Checksum         *string `gorm:"column:checksum_sha256"`
	Version          int
	UploadedByID     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r Dataroom) toModel() models.Dataroom {
	return models.Dataroom{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r Folder) toModel() models.Folder {
	return models.Folder{
		ID:         r.ID,
		DataroomID: r.DataroomID,
		ParentID:   r.ParentID,
		Name:       r.Name,
		Path:       r.Path,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func folderRecord(f *models.Folder) Folder {
	return Folder{
		ID:         f.ID,
		DataroomID: f.DataroomID,
		ParentID:   f.ParentID,
		Name:       f.Name,
		Path:       f.Path,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func (r File) toModel() models.File {
	return models.File{
		ID:               r.ID,
		DataroomID:       r.DataroomID,
		FolderID:         r.FolderID,
		Name:             r.Name,
		OriginalFilename: r.OriginalFilename,
		ContentType:      r.ContentType,
		SizeBytes:        r.SizeBytes,
		StoragePath:      r.StoragePath,
		Checksum:         r.Checksum,
		Version:          r.Version,
		UploadedByID:     r.UploadedByID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func fileRecord(f *models.File) File {
	return File{
		ID:               f.ID,
		DataroomID:       f.DataroomID,
		FolderID:         f.FolderID,
		Name:             f.Name,
		OriginalFilename: f.OriginalFilename,
		ContentType:      f.ContentType,
		SizeBytes:        f.SizeBytes,
		StoragePath:      f.StoragePath,
		Checksum:         f.Checksum,
		Version:          f.Version,
		UploadedByID:     f.UploadedByID,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}
