package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

// cascadeStateTTL bounds how long an abandoned hierarchy form survives.
const cascadeStateTTL = 30 * time.Minute

// cascadeParentFK maps each level below the root to the foreign-key column
// narrowing its options to the parent selection.
var cascadeParentFK = [models.CascadeDepth]string{
	models.LevelInstitute: "university_id",
	models.LevelProgram:   "institute_id",
	models.LevelBranch:    "program_id",
	models.LevelYear:      "branch_id",
	models.LevelSemester:  "year_id",
}

type optionsRepository interface {
	ListOptions(ctx context.Context, entity models.Entity, fkColumn string, parentID *int64) ([]models.Option, error)
}

type cascadeStateStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OptionsService serves dependent-dropdown options for the course hierarchy
// and keeps each session's selection state consistent across levels.
type OptionsService struct {
	repo   optionsRepository
	store  cascadeStateStore
	logger *zap.Logger
}

// NewOptionsService creates a cascade options service.
func NewOptionsService(repo optionsRepository, store cascadeStateStore, logger *zap.Logger) *OptionsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptionsService{repo: repo, store: store, logger: logger}
}

// Options fetches the dropdown entries for one level. Levels below the root
// require the parent selection; without it the list is empty rather than
// unscoped.
func (s *OptionsService) Options(ctx context.Context, level models.CascadeLevel, parentID *int64) ([]models.Option, error) {
	entity, ok := models.LookupEntity(level.String())
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownEntity, fmt.Sprintf("no entity for cascade level %q", level))
	}

	fk := cascadeParentFK[level]
	if fk != "" && parentID == nil {
		return []models.Option{}, nil
	}

	options, err := s.repo.ListOptions(ctx, entity, fk, parentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s options", level))
	}
	return options, nil
}

// State returns the session's cascade state, fresh when none is stored.
func (s *OptionsService) State(ctx context.Context, sessionKey string) (*models.CascadeState, error) {
	state := &models.CascadeState{}
	if err := s.store.Get(ctx, cascadeKey(sessionKey), state); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return &models.CascadeState{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cascade state")
	}
	return state, nil
}

// Select records a choice at one level, clears every level below it, and
// loads the next level's options under a generation token so a slower,
// superseded fetch can never overwrite a newer selection's options.
func (s *OptionsService) Select(ctx context.Context, sessionKey string, level models.CascadeLevel, id int64) (*models.CascadeState, error) {
	state, err := s.State(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	state.Select(level, id)

	next := level + 1
	if int(next) < models.CascadeDepth {
		generation := state.BeginFetch(next)
		options, err := s.Options(ctx, next, &id)
		if err != nil {
			return nil, err
		}
		if !state.ApplyOptions(next, generation, options) {
			s.logger.Debug("dropped stale option fetch",
				zap.String("level", next.String()),
				zap.Uint64("generation", generation))
		}
	}

	if err := s.saveState(ctx, sessionKey, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ClearFrom resets a level and everything below it, keeping selections above.
func (s *OptionsService) ClearFrom(ctx context.Context, sessionKey string, level models.CascadeLevel) (*models.CascadeState, error) {
	state, err := s.State(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	state.Clear(level)
	if err := s.saveState(ctx, sessionKey, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Reset discards the session's cascade state entirely.
func (s *OptionsService) Reset(ctx context.Context, sessionKey string) error {
	if err := s.store.Delete(ctx, cascadeKey(sessionKey)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset cascade state")
	}
	return nil
}

func (s *OptionsService) saveState(ctx context.Context, sessionKey string, state *models.CascadeState) error {
	if err := s.store.Set(ctx, cascadeKey(sessionKey), state, cascadeStateTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save cascade state")
	}
	return nil
}

func cascadeKey(sessionKey string) string {
	return "cascade:" + sessionKey
}
