package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/hierarchy-api/internal/errs"
	"github.com/deppfellow/hierarchy-api/internal/model"
	"github.com/deppfellow/hierarchy-api/internal/repository"
	"github.com/deppfellow/hierarchy-api/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// HierarchyService implements the hierarchy operations on top of a HierarchyRepository.
type HierarchyService struct {
	repo repository.HierarchyRepository
}

func NewHierarchyService(repo repository.HierarchyRepository) *HierarchyService {
	return &HierarchyService{repo: repo}
}

func hierarchyNotFound(id uuid.UUID) *errs.HTTPError {
	code := errs.CodeHierarchyMissing
	return errs.NewNotFoundError(fmt.Sprintf("Hierarchy %s not found", id), true, &code)
}

// requiredUserInputFields must be present as non-blank strings in userInput.
var requiredUserInputFields = []string{"company", "location"}

func requiredField(field string) error {
	return errs.NewFieldValidationError(field+" is required", field, "is required")
}

// parseUserInput parses the mandatory userInput object.
func parseUserInput(raw json.RawMessage) (model.Document, error) {
	if model.IsNullJSON(raw) {
		return nil, requiredField("userInput")
	}
	return model.ParseDocument("userInput", raw)
}

// parseData parses a mandatory data payload. Any non-null JSON value is accepted.
func parseData(raw json.RawMessage) (json.RawMessage, error) {
	if model.IsNullJSON(raw) {
		return nil, requiredField("data")
	}
	return model.ParseData("data", raw)
}

// CreateHierarchy stores a new metadata row and its first data row in one transaction.
func (s *HierarchyService) CreateHierarchy(ctx context.Context, req *model.CreateHierarchyRequest) (*model.CreatedHierarchy, error) {
	logger := zerolog.Ctx(ctx)

	userInput, err := parseUserInput(req.UserInput)
	if err != nil {
		return nil, err
	}

	var fieldErrors []errs.FieldError
	for _, key := range requiredUserInputFields {
		if _, ok := userInput.String(key); !ok {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: "userInput." + key, Error: "is required"})
		}
	}
	if len(fieldErrors) > 0 {
		code := errs.CodeValidationFailed
		return nil, errs.NewBadRequestError("userInput must include company and location", true, &code, fieldErrors, nil)
	}

	data, err := parseData(req.Data)
	if err != nil {
		return nil, err
	}

	params := model.CreateMetadataParams{
		UserInput:    userInput,
		Version:      model.DefaultVersion,
		Status:       model.StatusInDraft,
		UserFeedback: req.UserFeedback,
	}
	if req.Version != nil {
		params.Version = *req.Version
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, errs.NewFieldValidationError("Invalid status", "status", "must be one of: in-draft approved")
		}
		params.Status = *req.Status
	}

	created := &model.CreatedHierarchy{}
	err = s.repo.WithTx(ctx, func(repo repository.HierarchyRepository) error {
		metadata, err := repo.CreateMetadata(ctx, params)
		if err != nil {
			return err
		}

		row, err := repo.CreateData(ctx, metadata.ID, data)
		if err != nil {
			return err
		}

		created.Metadata = metadata
		created.Data = row
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create hierarchy")
		return nil, err
	}

	logger.Info().
		Str("metadata_id", created.Metadata.ID.String()).
		Str("version", created.Metadata.Version).
		Msg("hierarchy created")

	return created, nil
}

// GetHierarchy returns the metadata row and all of its data rows, newest first.
func (s *HierarchyService) GetHierarchy(ctx context.Context, id uuid.UUID) (*model.Hierarchy, error) {
	logger := zerolog.Ctx(ctx)

	var (
		metadata *model.HierarchyMetadata
		data     []model.HierarchyData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		metadata, err = s.repo.GetMetadataByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		data, err = s.repo.GetDataByMetadataID(gctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Str("metadata_id", id.String()).Msg("failed to fetch hierarchy")
		return nil, err
	}

	if metadata == nil {
		return nil, hierarchyNotFound(id)
	}

	return &model.Hierarchy{Metadata: metadata, Data: data}, nil
}

// UpdateMetadata applies update to the metadata row.
func (s *HierarchyService) UpdateMetadata(ctx context.Context, id uuid.UUID, update model.MetadataUpdate) (*model.HierarchyMetadata, error) {
	logger := zerolog.Ctx(ctx)

	metadata, err := s.repo.UpdateMetadata(ctx, id, update)
	if err != nil {
		logger.Error().Err(err).Str("metadata_id", id.String()).Msg("failed to update metadata")
		return nil, err
	}

	if metadata == nil {
		return nil, hierarchyNotFound(id)
	}

	return metadata, nil
}

// AddHierarchyData attaches a new data document to an existing hierarchy.
func (s *HierarchyService) AddHierarchyData(ctx context.Context, id uuid.UUID, raw json.RawMessage) (*model.HierarchyData, error) {
	logger := zerolog.Ctx(ctx)

	data, err := parseData(raw)
	if err != nil {
		return nil, err
	}

	metadata, err := s.repo.GetMetadataByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Str("metadata_id", id.String()).Msg("failed to fetch metadata")
		return nil, err
	}

	if metadata == nil {
		return nil, hierarchyNotFound(id)
	}

	row, err := s.repo.CreateData(ctx, id, data)
	if err != nil {
		// The metadata row was deleted between the lookup and the insert.
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return nil, hierarchyNotFound(id)
		}

		logger.Error().Err(err).Str("metadata_id", id.String()).Msg("failed to add hierarchy data")
		return nil, err
	}

	return row, nil
}

// ListHierarchies returns one page of metadata rows matching filter.
func (s *HierarchyService) ListHierarchies(ctx context.Context, filter model.MetadataFilter, limit, offset int) (*model.MetadataPage, error) {
	page, err := s.repo.ListMetadata(ctx, filter, limit, offset)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list hierarchies")
		return nil, err
	}

	return page, nil
}

// DeleteHierarchy removes a hierarchy. Its data rows go with it.
func (s *HierarchyService) DeleteHierarchy(ctx context.Context, id uuid.UUID) (*model.HierarchyMetadata, error) {
	logger := zerolog.Ctx(ctx)

	metadata, err := s.repo.DeleteMetadata(ctx, id)
	if err != nil {
		logger.Error().Err(err).Str("metadata_id", id.String()).Msg("failed to delete hierarchy")
		return nil, err
	}

	if metadata == nil {
		return nil, hierarchyNotFound(id)
	}

	logger.Info().Str("metadata_id", id.String()).Msg("hierarchy deleted")

	return metadata, nil
}
