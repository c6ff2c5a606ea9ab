package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/model"
	"github.com/sakif/imagevault/internal/repository"
	"github.com/sakif/imagevault/internal/storage"
	"github.com/sakif/imagevault/internal/upload"
)

// ObjectStore is the slice of the disk store the vault service needs.
// storage.Disk implements it; tests use an in-memory fake.
type ObjectStore interface {
	Save(name string, r io.Reader) error
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
	List() ([]string, error)
}

// IncomingFile is one file of an upload batch.
type IncomingFile struct {
	Name string
	Data io.Reader
}

// UploadResult reports the outcome of one file in a batch. Message is
// user-visible and flashed by the handler; Err is nil on success.
type UploadResult struct {
	OriginalName string
	FileID       string
	Message      string
	Err          error
}

// VaultService orchestrates upload, list, download, and delete over the
// file registry and the object store, enforcing per-user ownership on
// every read and delete.
type VaultService struct {
	files     repository.FileRepository
	objects   ObjectStore
	validator *upload.Validator
	logger    *slog.Logger
}

// NewVaultService creates a VaultService.
func NewVaultService(files repository.FileRepository, objects ObjectStore, validator *upload.Validator, logger *slog.Logger) *VaultService {
	return &VaultService{
		files:     files,
		objects:   objects,
		validator: validator,
		logger:    logger,
	}
}

// Upload processes a batch of incoming files. Each file is handled
// independently: a rejected or failed file never aborts the rest of the
// batch, and every file gets its own result with a user-visible message.
func (s *VaultService) Upload(ctx context.Context, ownerID string, incoming []IncomingFile) []UploadResult {
	results := make([]UploadResult, 0, len(incoming))
	for _, f := range incoming {
		results = append(results, s.uploadOne(ctx, ownerID, f))
	}
	return results
}

func (s *VaultService) uploadOne(ctx context.Context, ownerID string, f IncomingFile) UploadResult {
	res := UploadResult{OriginalName: f.Name}

	if !s.validator.Allowed(f.Name) {
		res.Err = apperror.ValidationFailed("file",
			"Invalid file type. Please upload an image (jpg, jpeg, png, gif).")
		res.Message = res.Err.Error()
		return res
	}

	// The stored name is a fresh UUID plus the original extension — never
	// the client filename, which keeps untrusted input out of disk paths.
	storedName := uuid.New().String() + "." + upload.Ext(f.Name)

	if err := s.objects.Save(storedName, f.Data); err != nil {
		s.logger.Error("upload write failed",
			slog.String("ownerID", ownerID),
			slog.String("file", f.Name),
			slog.String("error", err.Error()),
		)
		res.Err = apperror.Storage(fmt.Sprintf("Error while saving file %s", f.Name), err)
		res.Message = res.Err.Error()
		return res
	}

	file := &model.File{
		StoredName:   storedName,
		OriginalName: f.Name,
		OwnerID:      ownerID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		// Keep row and object consistent: if the row can't be written,
		// the object must not linger.
		if rmErr := s.objects.Remove(storedName); rmErr != nil {
			s.logger.Error("orphaned object after failed registry insert",
				slog.String("storedName", storedName),
				slog.String("error", rmErr.Error()),
			)
		}
		s.logger.Error("upload registry insert failed",
			slog.String("ownerID", ownerID),
			slog.String("file", f.Name),
			slog.String("error", err.Error()),
		)
		res.Err = apperror.Storage(fmt.Sprintf("Error while saving file %s", f.Name), err)
		res.Message = res.Err.Error()
		return res
	}

	s.logger.Info("file uploaded",
		slog.String("fileID", file.ID),
		slog.String("ownerID", ownerID),
		slog.String("storedName", storedName),
	)

	res.FileID = file.ID
	res.Message = fmt.Sprintf("File %s successfully uploaded", f.Name)
	return res
}

// List returns the owner's files, newest upload first.
func (s *VaultService) List(ctx context.Context, ownerID string) ([]model.File, error) {
	files, err := s.files.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("listing files failed",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// Download streams a stored file back to its owner. The returned File
// carries the original name the handler suggests as the attachment name.
//
// Fails with NotFound for an unknown id, Forbidden when the requester is
// not the owner, and MissingObject when the registry row exists but the
// on-disk object is gone.
func (s *VaultService) Download(ctx context.Context, ownerID, fileID string) (io.ReadCloser, *model.File, error) {
	file, err := s.authorize(ctx, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.objects.Open(file.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			s.logger.Warn("registry row without object",
				slog.String("fileID", fileID),
				slog.String("storedName", file.StoredName),
			)
			return nil, nil, apperror.MissingObject(file.StoredName)
		}
		return nil, nil, fmt.Errorf("opening stored object: %w", err)
	}

	return rc, file, nil
}

// Delete removes a file after the same ownership check as Download.
//
// Ordering: the disk object is removed first and only a confirmed removal
// reaches the registry delete. A crash between the two steps leaves an
// orphaned registry row pointing at a missing object, which Reconcile
// repairs; the reverse ordering would leak anonymous disk objects instead.
func (s *VaultService) Delete(ctx context.Context, ownerID, fileID string) error {
	file, err := s.authorize(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := s.objects.Remove(file.StoredName); err != nil {
		return apperror.Storage("Error while deleting file", err)
	}

	if err := s.files.DeleteByID(ctx, fileID); err != nil {
		return fmt.Errorf("deleting file record: %w", err)
	}

	s.logger.Info("file deleted",
		slog.String("fileID", fileID),
		slog.String("ownerID", ownerID),
	)
	return nil
}

// Reconcile sweeps the registry and the storage root back into agreement:
// rows whose object is missing are dropped, and objects with no row are
// removed. Run at startup and periodically thereafter.
func (s *VaultService) Reconcile(ctx context.Context) (removedRows, removedObjects int, err error) {
	files, err := s.files.ListAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reconcile: listing registry: %w", err)
	}

	onDisk, err := s.objects.List()
	if err != nil {
		return 0, 0, fmt.Errorf("reconcile: listing objects: %w", err)
	}
	present := make(map[string]bool, len(onDisk))
	for _, name := range onDisk {
		present[name] = true
	}

	registered := make(map[string]bool, len(files))
	for _, f := range files {
		registered[f.StoredName] = true
		if present[f.StoredName] {
			continue
		}
		if err := s.files.DeleteByID(ctx, f.ID); err != nil {
			s.logger.Error("reconcile: dropping orphaned row failed",
				slog.String("fileID", f.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		removedRows++
		s.logger.Warn("reconcile: dropped registry row without object",
			slog.String("fileID", f.ID),
			slog.String("storedName", f.StoredName),
		)
	}

	for _, name := range onDisk {
		if registered[name] {
			continue
		}
		if err := s.objects.Remove(name); err != nil {
			s.logger.Error("reconcile: removing orphaned object failed",
				slog.String("storedName", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		removedObjects++
		s.logger.Warn("reconcile: removed object without registry row",
			slog.String("storedName", name),
		)
	}

	return removedRows, removedObjects, nil
}

// authorize fetches the file and enforces ownership. Non-owners get
// Forbidden even with a valid file id.
func (s *VaultService) authorize(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if file.OwnerID != ownerID {
		s.logger.Warn("ownership check failed",
			slog.String("fileID", fileID),
			slog.String("ownerID", file.OwnerID),
			slog.String("requester", ownerID),
		)
		return nil, apperror.Forbidden("Permission denied")
	}

	return file, nil
}
