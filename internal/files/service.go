// Package files implements the file actions: upload, list, rename,
// sharing updates, delete, and the usage summary.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jaevor/go-nanoid"

	"skyvault/internal/database"
	"skyvault/internal/filetype"
	"skyvault/internal/models"
	"skyvault/internal/query"
	"skyvault/internal/realtime"
	"skyvault/internal/storage"
)

// MaxUploadBytes is the per-file upload ceiling, checked before any
// storage call.
const MaxUploadBytes int64 = 50 * 1024 * 1024

var (
	ErrNotFound     = errors.New("file not found")
	ErrOversizeFile = fmt.Errorf("file exceeds the %d MB upload limit", MaxUploadBytes/(1024*1024))
	ErrEmptyName    = errors.New("file name cannot be empty")
)

// MetadataStore is the slice of the database store the service needs.
type MetadataStore interface {
	CreateFile(ctx context.Context, arg database.CreateFileParams) (*models.File, error)
	ListFiles(ctx context.Context, preds []query.Predicate) ([]models.File, int64, error)
	GetFileByID(ctx context.Context, id string) (*models.File, error)
	RenameFile(ctx context.Context, id string, ownerID int64, newName string) (*models.File, error)
	ReplaceSharedWith(ctx context.Context, id string, ownerID int64, emails []string) (*models.File, error)
	DeleteFile(ctx context.Context, id string, ownerID int64) (string, bool, error)
	ListFilesByOwner(ctx context.Context, ownerID int64) ([]models.File, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error
}

type Service struct {
	store         MetadataStore
	objects       storage.ObjectStorage
	hub           *realtime.Hub
	publicBaseURL string
	newID         func() string
}

// NewService wires the file actions. hub may be nil when realtime
// notifications are not wanted (tests, CLI tooling).
func NewService(store MetadataStore, objects storage.ObjectStorage, hub *realtime.Hub, publicBaseURL string) (*Service, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	return &Service{
		store:         store,
		objects:       objects,
		hub:           hub,
		publicBaseURL: publicBaseURL,
		newID:         generateID,
	}, nil
}

func (s *Service) ViewURL(fileID string) string {
	return s.publicBaseURL + "/api/v1/files/" + fileID + "/view"
}

func (s *Service) DownloadURL(fileID string) string {
	return s.publicBaseURL + "/api/v1/files/" + fileID + "/download"
}

// Upload classifies the file, stores its bytes, and persists the record.
// If the record insert fails after the object was stored, the orphaned
// object is deleted before the error is surfaced. declaredSize is checked
// against the upload ceiling before any storage call; pass 0 when the
// size is unknown.
func (s *Service) Upload(ctx context.Context, owner *models.User, name string, declaredSize int64, data io.Reader) (*models.File, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if declaredSize > MaxUploadBytes {
		return nil, ErrOversizeFile
	}

	category, extension := filetype.Classify(name)

	objectID := s.newID()
	sizeBytes, err := s.objects.Save(ctx, objectID, io.LimitReader(data, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}
	if sizeBytes > MaxUploadBytes {
		if cleanupErr := s.objects.Delete(ctx, objectID); cleanupErr != nil {
			log.Printf("WARN: failed to clean up oversize object %s: %v", objectID, cleanupErr)
		}
		return nil, ErrOversizeFile
	}

	fileID := s.newID()
	file, err := s.store.CreateFile(ctx, database.CreateFileParams{
		ID:              fileID,
		OwnerID:         owner.ID,
		AccountID:       owner.AccountID,
		Name:            name,
		Category:        category,
		Extension:       extension,
		URL:             s.ViewURL(fileID),
		SizeBytes:       sizeBytes,
		SharedWith:      []string{},
		StorageObjectID: objectID,
	})
	if err != nil {
		// Compensating action: the stored object must not be left
		// orphaned. A failed cleanup is reported alongside the original
		// error, never instead of it.
		if cleanupErr := s.objects.Delete(ctx, objectID); cleanupErr != nil {
			return nil, fmt.Errorf("failed to create file record: %w (cleanup of storage object %s also failed: %v)", err, objectID, cleanupErr)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	if err := s.store.LogEvent(ctx, owner.ID, "file_uploaded", file); err != nil {
		log.Printf("WARN: failed to journal upload of %s: %v", file.ID, err)
	}

	return file, nil
}

// List returns the files the viewer owns or has been shared, filtered and
// sorted per the request, plus the total match count.
func (s *Service) List(ctx context.Context, viewer *models.User, types []filetype.Category, searchText, sort string, limit int) ([]models.File, int64, error) {
	preds := query.ForViewer(viewer.ID, viewer.Email, types, searchText, sort, limit)
	return s.store.ListFiles(ctx, preds)
}

// Rename recomputes the full name as "<base>.<extension>" and updates the
// name only; the category and extension fields are untouched.
func (s *Service) Rename(ctx context.Context, owner *models.User, fileID, newBase, extension string) (*models.File, error) {
	if newBase == "" {
		return nil, ErrEmptyName
	}

	fullName := newBase
	if extension != "" {
		fullName = newBase + "." + extension
	}

	file, err := s.store.RenameFile(ctx, fileID, owner.ID, fullName)
	if err != nil {
		return nil, fmt.Errorf("failed to rename file: %w", err)
	}
	if file == nil {
		return nil, ErrNotFound
	}

	return file, nil
}

// UpdateSharing replaces the sharing email list wholesale. Newly added
// recipients with an account get a journal entry and a realtime
// notification.
func (s *Service) UpdateSharing(ctx context.Context, owner *models.User, fileID string, emails []string) (*models.File, error) {
	previous, err := s.store.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	if previous == nil || previous.OwnerID != owner.ID {
		return nil, ErrNotFound
	}

	file, err := s.store.ReplaceSharedWith(ctx, fileID, owner.ID, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to update sharing: %w", err)
	}
	if file == nil {
		return nil, ErrNotFound
	}

	s.notifyNewRecipients(ctx, previous.SharedWith, file)

	return file, nil
}

func (s *Service) notifyNewRecipients(ctx context.Context, before []string, file *models.File) {
	known := make(map[string]bool, len(before))
	for _, email := range before {
		known[email] = true
	}

	for _, email := range file.SharedWith {
		if known[email] {
			continue
		}
		recipient, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			log.Printf("WARN: failed to look up share recipient %s: %v", email, err)
			continue
		}
		if recipient == nil {
			continue
		}
		if err := s.store.LogEvent(ctx, recipient.ID, "file_shared_with_you", file); err != nil {
			log.Printf("WARN: failed to journal share of %s: %v", file.ID, err)
		}
		if s.hub != nil {
			s.hub.Notify(recipient.ID, "file_shared_with_you", file)
		}
	}
}

// Delete removes the record first and the storage object only if that
// succeeded. A failed record delete leaves the object intact; there is no
// compensating path here, mirroring the documented behavior.
func (s *Service) Delete(ctx context.Context, owner *models.User, fileID string) error {
	objectID, deleted, err := s.store.DeleteFile(ctx, fileID, owner.ID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	if err := s.objects.Delete(ctx, objectID); err != nil {
		return fmt.Errorf("file record removed but storage object %s was not deleted: %w", objectID, err)
	}

	return nil
}

// UsageSummary folds the owner's files into per-category totals. Files
// shared with the user by others do not count against their quota.
func (s *Service) UsageSummary(ctx context.Context, owner *models.User) (*filetype.UsageSummary, error) {
	ownedFiles, err := s.store.ListFilesByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned files: %w", err)
	}

	entries := make([]filetype.UsageEntry, len(ownedFiles))
	for i, f := range ownedFiles {
		entries[i] = filetype.UsageEntry{
			Category:  f.Category,
			SizeBytes: f.SizeBytes,
			UpdatedAt: f.UpdatedAt,
		}
	}

	summary := filetype.Summarize(entries)
	return &summary, nil
}

// Open returns the record and a reader over its bytes for the view and
// download endpoints.
func (s *Service) Open(ctx context.Context, fileID string) (*models.File, io.ReadCloser, error) {
	file, err := s.store.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load file: %w", err)
	}
	if file == nil {
		return nil, nil, ErrNotFound
	}

	reader, err := s.objects.Open(ctx, file.StorageObjectID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open storage object: %w", err)
	}

	return file, reader, nil
}
