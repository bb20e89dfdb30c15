package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/model"
	"bloom-subscription-storefront/internal/domain/ports/repository"
	"bloom-subscription-storefront/internal/infra/metrics"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase covers the storefront side: catalog filtering and the
// select-plan handoff into the session store.
type PlanUseCase interface {
	// List returns the plans visible under a filter key ("all" shows all).
	List(ctx context.Context, filter string) []model.Plan
	// Select persists a plan selection for the session and returns the cart
	// count. The selection's metadata is stored as-is, unvalidated;
	// malformed metadata propagates to checkout unchanged.
	Select(ctx context.Context, sessionID string, sel model.PlanSelection) (int, error)
	// Selected returns the current selection, or ErrNoPlanSelected.
	Selected(ctx context.Context, sessionID string) (*model.PlanSelection, error)
}

type planUC struct {
	sessions repository.SessionStore
	log      *zerolog.Logger
}

func NewPlanUseCase(sessions repository.SessionStore, logger *zerolog.Logger) *planUC {
	return &planUC{sessions: sessions, log: logger}
}

func (u *planUC) List(ctx context.Context, filter string) []model.Plan {
	return model.FilterPlans(filter)
}

func (u *planUC) Select(ctx context.Context, sessionID string, sel model.PlanSelection) (int, error) {
	data, err := json.Marshal(sel)
	if err != nil {
		return 0, fmt.Errorf("marshal selection: %w", err)
	}
	if err := u.sessions.Set(ctx, sessionID, repository.KeySelectedPlan, string(data)); err != nil {
		return 0, fmt.Errorf("store selection: %w", err)
	}
	metrics.IncPlanSelection(sel.PlanCode)
	u.log.Debug().Str("plan_code", sel.PlanCode).Str("plan_name", sel.Name).Msg("plan selected")
	// One selection at a time; the cart indicator always shows 1 after a pick.
	return 1, nil
}

func (u *planUC) Selected(ctx context.Context, sessionID string) (*model.PlanSelection, error) {
	raw, err := u.sessions.Get(ctx, sessionID, repository.KeySelectedPlan)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoPlanSelected
		}
		return nil, err
	}
	var sel model.PlanSelection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoPlanSelected, err)
	}
	return &sel, nil
}
