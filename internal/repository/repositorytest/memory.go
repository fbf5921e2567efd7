// Package repositorytest provides an in-memory HierarchyRepository for tests.
package repositorytest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/deppfellow/hierarchy-api/internal/errs"
	"github.com/deppfellow/hierarchy-api/internal/model"
	"github.com/deppfellow/hierarchy-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Memory is a HierarchyRepository that keeps rows in maps.
//
// Fail injects an error returned by the method of the same name,
// e.g. Fail["CreateData"] = errors.New("boom").
type Memory struct {
	mu       sync.Mutex
	metadata map[uuid.UUID]model.HierarchyMetadata
	data     map[uuid.UUID]model.HierarchyData
	clock    time.Time

	Fail map[string]error
}

var _ repository.HierarchyRepository = (*Memory)(nil)

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{
		metadata: make(map[uuid.UUID]model.HierarchyMetadata),
		data:     make(map[uuid.UUID]model.HierarchyData),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:     make(map[string]error),
	}
}

// MetadataCount returns the number of stored metadata rows.
func (m *Memory) MetadataCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.metadata)
}

// DataCount returns the number of stored data rows.
func (m *Memory) DataCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// tick advances the clock so every insert gets a distinct timestamp.
func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *Memory) fail(method string) error {
	return m.Fail[method]
}

// WithTx snapshots the store and restores it when fn fails.
func (m *Memory) WithTx(ctx context.Context, fn func(repo repository.HierarchyRepository) error) error {
	m.mu.Lock()
	metadata := make(map[uuid.UUID]model.HierarchyMetadata, len(m.metadata))
	for k, v := range m.metadata {
		metadata[k] = v
	}
	data := make(map[uuid.UUID]model.HierarchyData, len(m.data))
	for k, v := range m.data {
		data[k] = v
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.metadata = metadata
		m.data = data
		m.mu.Unlock()
		return err
	}

	return nil
}

func (m *Memory) CreateMetadata(_ context.Context, params model.CreateMetadataParams) (*model.HierarchyMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("CreateMetadata"); err != nil {
		return nil, err
	}

	now := m.tick()
	row := model.HierarchyMetadata{
		ID:           uuid.New(),
		UserInput:    clone(params.UserInput),
		Version:      params.Version,
		Status:       params.Status,
		UserFeedback: params.UserFeedback,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.metadata[row.ID] = row

	return &row, nil
}

func (m *Memory) CreateData(_ context.Context, metadataID uuid.UUID, data json.RawMessage) (*model.HierarchyData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("CreateData"); err != nil {
		return nil, err
	}

	if _, ok := m.metadata[metadataID]; !ok {
		return nil, &pgconn.PgError{
			Severity:       "ERROR",
			Code:           "23503",
			Message:        `insert or update on table "hierarchy_data" violates foreign key constraint "hierarchy_data_metadata_id_fkey"`,
			TableName:      "hierarchy_data",
			ConstraintName: "hierarchy_data_metadata_id_fkey",
		}
	}

	row := model.HierarchyData{
		ID:         uuid.New(),
		MetadataID: metadataID,
		Data:       append(json.RawMessage(nil), data...),
		CreatedAt:  m.tick(),
	}
	m.data[row.ID] = row

	return &row, nil
}

func (m *Memory) GetMetadataByID(_ context.Context, id uuid.UUID) (*model.HierarchyMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("GetMetadataByID"); err != nil {
		return nil, err
	}

	row, ok := m.metadata[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *Memory) GetDataByMetadataID(_ context.Context, metadataID uuid.UUID) ([]model.HierarchyData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("GetDataByMetadataID"); err != nil {
		return nil, err
	}

	rows := []model.HierarchyData{}
	for _, row := range m.data {
		if row.MetadataID == metadataID {
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	return rows, nil
}

func (m *Memory) UpdateMetadata(_ context.Context, id uuid.UUID, update model.MetadataUpdate) (*model.HierarchyMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("UpdateMetadata"); err != nil {
		return nil, err
	}

	if update.IsEmpty() {
		code := errs.CodeValidationFailed
		return nil, errs.NewBadRequestError("No valid fields to update", true, &code, nil, nil)
	}

	row, ok := m.metadata[id]
	if !ok {
		return nil, nil
	}

	if update.Status != nil {
		row.Status = *update.Status
	}
	if update.UserFeedback != nil {
		feedback := *update.UserFeedback
		row.UserFeedback = &feedback
	} else if update.ClearUserFeedback {
		row.UserFeedback = nil
	}
	if update.Version != nil {
		row.Version = *update.Version
	}
	row.UpdatedAt = m.tick()

	m.metadata[id] = row
	return &row, nil
}

func (m *Memory) ListMetadata(_ context.Context, filter model.MetadataFilter, limit, offset int) (*model.MetadataPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("ListMetadata"); err != nil {
		return nil, err
	}

	if limit < 0 {
		return nil, &pgconn.PgError{Severity: "ERROR", Code: "2201W", Message: "LIMIT must not be negative"}
	}
	if offset < 0 {
		return nil, &pgconn.PgError{Severity: "ERROR", Code: "2201X", Message: "OFFSET must not be negative"}
	}

	matched := []model.HierarchyMetadata{}
	for _, row := range m.metadata {
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		if filter.Version != nil && row.Version != *filter.Version {
			continue
		}
		matched = append(matched, row)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := &model.MetadataPage{
		Items:  []model.HierarchyMetadata{},
		Total:  len(matched),
		Limit:  limit,
		Offset: offset,
	}

	if offset < len(matched) {
		end := min(offset+limit, len(matched))
		page.Items = matched[offset:end]
	}

	return page, nil
}

func (m *Memory) DeleteMetadata(_ context.Context, id uuid.UUID) (*model.HierarchyMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("DeleteMetadata"); err != nil {
		return nil, err
	}

	row, ok := m.metadata[id]
	if !ok {
		return nil, nil
	}

	delete(m.metadata, id)
	for dataID, data := range m.data {
		if data.MetadataID == id {
			delete(m.data, dataID)
		}
	}

	return &row, nil
}

// clone deep-copies a document the way a jsonb round trip would.
func clone(doc model.Document) model.Document {
	if doc == nil {
		return nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}

	var out model.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}
