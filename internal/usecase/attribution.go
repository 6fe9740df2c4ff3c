package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

const returnedSuffix = " (Retourné)"

// resolverPageSize caps each page the resolver requests while walking a
// user's attribution history or the ASSIGNED SIM inventory.
const resolverPageSize = 200

var (
	// ErrUserRequired indicates a submit without a selected user; it is
	// rejected locally and never reaches the network.
	ErrUserRequired = errors.New("user id is required")
	// ErrAttributionNotFound indicates the referenced attribution is unknown upstream.
	ErrAttributionNotFound = errors.New("attribution not found")
	// ErrLifecycleViolation indicates an illegal status transition
	// (RETURNED is terminal; only ACTIVE→RETURNED and PENDING→ACTIVE move).
	ErrLifecycleViolation = errors.New("illegal attribution status transition")
)

// ReplacementConfirmationError signals that the submit would replace an
// assignment the user currently holds and the caller has not confirmed the
// replacement yet. Nothing is sent upstream until a confirmed resubmit.
type ReplacementConfirmationError struct {
	Current      domain.CurrentAssignments
	NewPhoneID   *string
	NewSimCardID *string
}

func (e *ReplacementConfirmationError) Error() string {
	parts := make([]string, 0, 2)
	if e.Current.PhoneLabel != nil {
		parts = append(parts, "phone "+*e.Current.PhoneLabel)
	}
	if e.Current.SimLabel != nil {
		parts = append(parts, "sim "+*e.Current.SimLabel)
	}
	return fmt.Sprintf("replacement of %s requires confirmation", strings.Join(parts, " and "))
}

// SubmitInput captures the assignment modal payload.
type SubmitInput struct {
	ID                 string
	UserID             string
	PhoneID            *string
	SimCardID          *string
	AssignmentDate     time.Time
	Status             domain.AttributionStatus
	Notes              string
	ActorID            string
	ConfirmReplacement bool
}

// AttributionService owns the attribution lifecycle: current-assignment
// resolution, conflict-aware submits, returns, deletes, and the direct SIM
// assignment path.
type AttributionService struct {
	api       port.FleetAPI
	inventory *InventoryService
	audit     port.AuditRepository
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttributionService constructs an AttributionService.
func NewAttributionService(api port.FleetAPI, inventory *InventoryService, logger *zap.Logger) *AttributionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttributionService{
		api:       api,
		inventory: inventory,
		logger:    logger,
		now:       time.Now,
	}
}

// WithAuditTrail records every mutation in the audit repository.
func (s *AttributionService) WithAuditTrail(audit port.AuditRepository) *AttributionService {
	s.audit = audit
	return s
}

// WithEventPublisher publishes attribution lifecycle events to the bus.
func (s *AttributionService) WithEventPublisher(events port.EventPublisher) *AttributionService {
	s.events = events
	return s
}

// WithClock injects a custom clock (primarily for testing).
func (s *AttributionService) WithClock(now func() time.Time) *AttributionService {
	if now != nil {
		s.now = now
	}
	return s
}

// ResolveCurrentAssignments looks up what the user already holds. The
// attribution table is the primary source: the record with the newest
// assignment date wins, across all statuses, with RETURNED pairs labeled as
// such. When no attribution carries a SIM, the ASSIGNED SIM inventory is
// scanned for a direct back-reference, catching assignments that bypassed the
// attribution flow. The two sources can diverge; the attribution table takes
// priority and the divergence is an upstream consistency bug, not something
// resolved here.
func (s *AttributionService) ResolveCurrentAssignments(ctx context.Context, userID string) (domain.CurrentAssignments, error) {
	var current domain.CurrentAssignments

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return current, ErrUserRequired
	}

	attributions, err := s.userAttributions(ctx, userID)
	if err != nil {
		return current, err
	}

	latest := latestAttribution(attributions)
	if latest != nil {
		suffix := ""
		if latest.Status == domain.AttributionStatusReturned {
			suffix = returnedSuffix
		}

		if latest.PhoneID != nil && *latest.PhoneID != "" {
			id := *latest.PhoneID
			label := s.phoneLabel(ctx, id) + suffix
			current.PhoneID = &id
			current.PhoneLabel = &label
		}
		if latest.SimCardID != nil && *latest.SimCardID != "" {
			id := *latest.SimCardID
			label := s.simLabel(ctx, id) + suffix
			current.SimID = &id
			current.SimLabel = &label
		}
	}

	if current.SimID == nil {
		assigned, err := s.assignedSims(ctx)
		if err != nil {
			return current, err
		}
		for _, sim := range assigned {
			if sim.AssignedToID != nil && *sim.AssignedToID == userID {
				id := sim.ID
				label := sim.Label()
				current.SimID = &id
				current.SimLabel = &label
				break
			}
		}
	}

	return current, nil
}

// Submit validates and creates or updates an attribution. A submit that would
// replace a currently held phone or SIM is rejected with
// ReplacementConfirmationError until resubmitted with ConfirmReplacement set.
func (s *AttributionService) Submit(ctx context.Context, input SubmitInput) (*domain.Attribution, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return nil, ErrUserRequired
	}

	var existing *domain.Attribution
	if input.ID != "" {
		found, err := s.findAttribution(ctx, input.UserID, input.ID)
		if err != nil {
			return nil, err
		}
		existing = found

		if input.Status != "" && input.Status != existing.Status && !existing.Status.CanTransitionTo(input.Status) {
			return nil, ErrLifecycleViolation
		}
	}

	current, err := s.ResolveCurrentAssignments(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	replacement := s.detectReplacement(current, input)
	if replacement != nil && !input.ConfirmReplacement {
		return nil, replacement
	}

	record := domain.Attribution{
		ID:             input.ID,
		UserID:         input.UserID,
		PhoneID:        input.PhoneID,
		SimCardID:      input.SimCardID,
		AssignedBy:     input.ActorID,
		AssignmentDate: input.AssignmentDate,
		Status:         input.Status,
		Notes:          input.Notes,
	}
	if record.AssignmentDate.IsZero() {
		record.AssignmentDate = s.now().UTC()
	}
	if record.Status == "" {
		// A status-less edit keeps the stored lifecycle state. RETURNED is
		// terminal and must survive a notes-only update.
		if existing != nil {
			record.Status = existing.Status
		} else {
			record.Status = domain.AttributionStatusActive
		}
	}

	var (
		stored *domain.Attribution
		action domain.AuditAction
	)
	if existing != nil {
		stored, err = s.api.UpdateAttribution(ctx, record)
		action = domain.AuditActionAttributionUpdate
	} else {
		stored, err = s.api.CreateAttribution(ctx, record)
		action = domain.AuditActionAttributionCreate
	}

	s.recordAudit(ctx, domain.AuditEntry{
		ActorID:   input.ActorID,
		Action:    action,
		EntityID:  record.ID,
		SubjectID: &record.UserID,
		PhoneID:   record.PhoneID,
		SimCardID: record.SimCardID,
		Outcome:   outcome(err),
	})
	if err != nil {
		return nil, err
	}

	if stored != nil && stored.ID != "" {
		s.publishCreated(ctx, *stored, replacement != nil)
	}

	s.inventory.Invalidate(ctx)
	return stored, nil
}

// Return marks an attribution RETURNED. RETURNED is terminal, so returning an
// already-returned record is a lifecycle violation.
func (s *AttributionService) Return(ctx context.Context, actorID, userID, attributionID string) (*domain.Attribution, error) {
	if attributionID == "" {
		return nil, ErrAttributionNotFound
	}

	if userID != "" {
		existing, err := s.findAttribution(ctx, userID, attributionID)
		if err != nil {
			return nil, err
		}
		if !existing.Status.CanTransitionTo(domain.AttributionStatusReturned) {
			return nil, ErrLifecycleViolation
		}
	}

	stored, err := s.api.ReturnAttribution(ctx, attributionID)

	s.recordAudit(ctx, domain.AuditEntry{
		ActorID:  actorID,
		Action:   domain.AuditActionAttributionReturn,
		EntityID: attributionID,
		Outcome:  outcome(err),
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil && stored != nil {
		returnedAt := s.now().UTC()
		if stored.ReturnDate != nil {
			returnedAt = *stored.ReturnDate
		}
		event := domain.AttributionReturnedEvent{
			AttributionID: stored.ID,
			UserID:        stored.UserID,
			ReturnedBy:    actorID,
			ReturnedAt:    returnedAt,
		}
		if err := s.events.PublishAttributionReturned(ctx, event); err != nil {
			s.logger.Warn("failed to publish attribution returned event", zap.Error(err))
		}
	}

	s.inventory.Invalidate(ctx)
	return stored, nil
}

// Delete removes an attribution upstream.
func (s *AttributionService) Delete(ctx context.Context, actorID, attributionID string) error {
	if attributionID == "" {
		return ErrAttributionNotFound
	}

	err := s.api.DeleteAttribution(ctx, attributionID)

	s.recordAudit(ctx, domain.AuditEntry{
		ActorID:  actorID,
		Action:   domain.AuditActionAttributionDelete,
		EntityID: attributionID,
		Outcome:  outcome(err),
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		event := domain.AttributionDeletedEvent{
			AttributionID: attributionID,
			DeletedBy:     actorID,
			DeletedAt:     s.now().UTC(),
		}
		if err := s.events.PublishAttributionDeleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish attribution deleted event", zap.Error(err))
		}
	}

	s.inventory.Invalidate(ctx)
	return nil
}

// AssignSim attaches a SIM directly to a user via the standalone path.
func (s *AttributionService) AssignSim(ctx context.Context, actorID, simID, userID string) error {
	err := s.api.AssignSim(ctx, simID, userID)

	s.recordAudit(ctx, domain.AuditEntry{
		ActorID:   actorID,
		Action:    domain.AuditActionSimAssign,
		EntityID:  simID,
		SubjectID: &userID,
		SimCardID: &simID,
		Outcome:   outcome(err),
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		event := domain.SimAssignedEvent{
			SimCardID:  simID,
			UserID:     userID,
			AssignedBy: actorID,
			AssignedAt: s.now().UTC(),
		}
		if err := s.events.PublishSimAssigned(ctx, event); err != nil {
			s.logger.Warn("failed to publish sim assigned event", zap.Error(err))
		}
	}

	s.inventory.Invalidate(ctx)
	return nil
}

// UnassignSim detaches a SIM from its holder via the standalone path.
func (s *AttributionService) UnassignSim(ctx context.Context, actorID, simID string) error {
	err := s.api.UnassignSim(ctx, simID)

	s.recordAudit(ctx, domain.AuditEntry{
		ActorID:   actorID,
		Action:    domain.AuditActionSimUnassign,
		EntityID:  simID,
		SimCardID: &simID,
		Outcome:   outcome(err),
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		event := domain.SimUnassignedEvent{
			SimCardID:    simID,
			UnassignedBy: actorID,
			UnassignedAt: s.now().UTC(),
		}
		if err := s.events.PublishSimUnassigned(ctx, event); err != nil {
			s.logger.Warn("failed to publish sim unassigned event", zap.Error(err))
		}
	}

	s.inventory.Invalidate(ctx)
	return nil
}

func (s *AttributionService) detectReplacement(current domain.CurrentAssignments, input SubmitInput) *ReplacementConfirmationError {
	simReplaced := input.SimCardID != nil && *input.SimCardID != "" &&
		current.SimID != nil && *current.SimID != *input.SimCardID
	phoneReplaced := input.PhoneID != nil && *input.PhoneID != "" &&
		current.PhoneID != nil && *current.PhoneID != *input.PhoneID

	if !simReplaced && !phoneReplaced {
		return nil
	}

	conflict := &ReplacementConfirmationError{Current: current}
	if simReplaced {
		conflict.NewSimCardID = input.SimCardID
	}
	if phoneReplaced {
		conflict.NewPhoneID = input.PhoneID
	}
	return conflict
}

func (s *AttributionService) findAttribution(ctx context.Context, userID, id string) (*domain.Attribution, error) {
	attributions, err := s.userAttributions(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range attributions {
		if attributions[i].ID == id {
			return &attributions[i], nil
		}
	}
	return nil, ErrAttributionNotFound
}

// userAttributions walks every page of the user's attribution history. A long
// history must not hide its newest record behind the upstream's default page
// size.
func (s *AttributionService) userAttributions(ctx context.Context, userID string) ([]domain.Attribution, error) {
	var all []domain.Attribution
	for page := 1; ; page++ {
		batch, err := s.api.ListAttributions(ctx, port.ListQuery{UserID: userID, Page: page, Limit: resolverPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < resolverPageSize {
			return all, nil
		}
	}
}

func (s *AttributionService) assignedSims(ctx context.Context) ([]domain.SimCard, error) {
	var all []domain.SimCard
	for page := 1; ; page++ {
		batch, err := s.api.ListSimCards(ctx, port.ListQuery{
			Status: string(domain.SimStatusAssigned),
			Page:   page,
			Limit:  resolverPageSize,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < resolverPageSize {
			return all, nil
		}
	}
}

func (s *AttributionService) phoneLabel(ctx context.Context, phoneID string) string {
	if s.inventory != nil {
		if snapshot, err := s.inventory.LoadSnapshot(ctx); err == nil {
			for _, phone := range snapshot.Phones {
				if phone.ID == phoneID {
					return phone.Label()
				}
			}
		}
	}
	return phoneID
}

func (s *AttributionService) simLabel(ctx context.Context, simID string) string {
	if s.inventory != nil {
		if snapshot, err := s.inventory.LoadSnapshot(ctx); err == nil {
			for _, sim := range snapshot.Sims {
				if sim.ID == simID {
					return sim.Label()
				}
			}
		}
	}
	return simID
}

func (s *AttributionService) recordAudit(ctx context.Context, entry domain.AuditEntry) {
	if s.audit == nil {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append audit entry",
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
	}
}

func (s *AttributionService) publishCreated(ctx context.Context, stored domain.Attribution, replacement bool) {
	if s.events == nil {
		return
	}

	event := domain.AttributionCreatedEvent{
		AttributionID:  stored.ID,
		UserID:         stored.UserID,
		PhoneID:        stored.PhoneID,
		SimCardID:      stored.SimCardID,
		AssignedBy:     stored.AssignedBy,
		AssignmentDate: stored.AssignmentDate,
		Replacement:    replacement,
	}
	if err := s.events.PublishAttributionCreated(ctx, event); err != nil {
		s.logger.Warn("failed to publish attribution created event", zap.Error(err))
	}
}

// latestAttribution picks the record with the newest assignment date across
// all statuses.
func latestAttribution(attributions []domain.Attribution) *domain.Attribution {
	var latest *domain.Attribution
	for i := range attributions {
		if latest == nil || attributions[i].AssignmentDate.After(latest.AssignmentDate) {
			latest = &attributions[i]
		}
	}
	return latest
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
