package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

var errNoSessionStore = errors.New("app: no session store configured")

// StartSession opens a staged session holding items, which may be empty.
func (s *Service) StartSession(ctx context.Context, items []domain.BatchItem) (*domain.Session, error) {
	if s.sessions == nil {
		return nil, errNoSessionStore
	}
	for _, it := range items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
	}

	now := s.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		Phase:     domain.PhaseStaged,
		Items:     mergeItems(nil, items...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, sess, s.sessionTTL); err != nil {
		return nil, err
	}
	s.logger.Info("session started", zap.String("session_id", sess.ID), zap.Int("items", len(sess.Items)))
	return sess, nil
}

// GetSession loads a session.
func (s *Service) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if s.sessions == nil {
		return nil, errNoSessionStore
	}
	return s.sessions.Get(ctx, id)
}

// StageTrackers adds changes for one creative. Staging into a validated
// session discards its plan and returns it to the staged phase.
func (s *Service) StageTrackers(ctx context.Context, id string, item domain.BatchItem) (*domain.Session, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if len(item.Changes) == 0 {
		return nil, fmt.Errorf("%w: no changes staged", domain.ErrMalformedInput)
	}

	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Phase == domain.PhaseCommitted {
		return nil, fmt.Errorf("%w: session %s is already committed", domain.ErrInvalidPhase, id)
	}

	sess.Items = mergeItems(sess.Items, item)
	sess.Phase = domain.PhaseStaged
	sess.Plan = nil
	return s.save(ctx, sess)
}

// ValidateSession computes the plan for the staged items without patching.
func (s *Service) ValidateSession(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Phase == domain.PhaseCommitted {
		return nil, fmt.Errorf("%w: session %s is already committed", domain.ErrInvalidPhase, id)
	}
	if len(sess.Items) == 0 {
		return nil, fmt.Errorf("%w: session %s has nothing staged", domain.ErrMalformedInput, id)
	}

	plan := s.Plan(ctx, sess.Items)
	sess.Plan = &plan
	sess.Phase = domain.PhaseValidated
	return s.save(ctx, sess)
}

// CommitSession applies a validated session.
func (s *Service) CommitSession(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseValidated {
		return nil, fmt.Errorf("%w: session %s is %s, validate it before committing", domain.ErrInvalidPhase, id, sess.Phase)
	}

	report := s.RunBatch(ctx, sess.Items)
	sess.Report = &report
	sess.Phase = domain.PhaseCommitted
	return s.save(ctx, sess)
}

// ClearSession deletes a session.
func (s *Service) ClearSession(ctx context.Context, id string) error {
	if s.sessions == nil {
		return errNoSessionStore
	}
	return s.sessions.Delete(ctx, id)
}

func (s *Service) save(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess, s.sessionTTL); err != nil {
		return nil, err
	}
	s.logger.Debug("session saved", zap.String("session_id", sess.ID), zap.String("phase", string(sess.Phase)))
	return sess, nil
}

// mergeItems appends each item's changes to the entry for the same
// creative, adding entries in first-seen order.
func mergeItems(items []domain.BatchItem, add ...domain.BatchItem) []domain.BatchItem {
	for _, a := range add {
		merged := false
		for i := range items {
			if items[i].AdvertiserID == a.AdvertiserID && items[i].CreativeID == a.CreativeID {
				items[i].Changes = append(items[i].Changes, a.Changes...)
				merged = true
				break
			}
		}
		if !merged {
			a.Changes = append([]domain.StagedChange(nil), a.Changes...)
			items = append(items, a)
		}
	}
	if items == nil {
		items = []domain.BatchItem{}
	}
	return items
}
