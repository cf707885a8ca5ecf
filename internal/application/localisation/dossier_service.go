package localisation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/logger"
	"github.com/localisation/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DossierServiceConfig holds the action engine settings
type DossierServiceConfig struct {
	// DefaultActor is recorded when the caller is anonymous
	DefaultActor string
	// AllowUnassignedTransfer turns an unknown destination brigade into an unassigned dossier
	AllowUnassignedTransfer bool
	IdempotencyTTL          time.Duration
}

// DossierService handles dossier queries and actions
type DossierService struct {
	dossiers    localisation.DossierRepository
	catalog     localisation.ReferenceCatalog
	idempotency shared.IdempotencyStore
	publisher   shared.EventPublisher
	metrics     *telemetry.DossierMetrics
	config      DossierServiceConfig
	now         func() time.Time
}

// DossierServiceOption configures optional collaborators
type DossierServiceOption func(*DossierService)

// WithIdempotencyStore enables Idempotency-Key handling on actions
func WithIdempotencyStore(store shared.IdempotencyStore) DossierServiceOption {
	return func(s *DossierService) { s.idempotency = store }
}

// WithEventPublisher publishes DossierActionApplied after each committed action
func WithEventPublisher(p shared.EventPublisher) DossierServiceOption {
	return func(s *DossierService) { s.publisher = p }
}

// WithMetrics records action counters and durations
func WithMetrics(m *telemetry.DossierMetrics) DossierServiceOption {
	return func(s *DossierService) { s.metrics = m }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) DossierServiceOption {
	return func(s *DossierService) { s.now = now }
}

// NewDossierService creates a new DossierService
func NewDossierService(
	dossiers localisation.DossierRepository,
	catalog localisation.ReferenceCatalog,
	config DossierServiceConfig,
	opts ...DossierServiceOption,
) *DossierService {
	if config.DefaultActor == "" {
		config.DefaultActor = localisation.SystemActor
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = 24 * time.Hour
	}
	s := &DossierService{
		dossiers: dossiers,
		catalog:  catalog,
		config:   config,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByID returns one dossier
func (s *DossierService) GetByID(ctx context.Context, id int) (*DossierResponse, error) {
	d, err := s.dossiers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDossierResponse(d)
	return &resp, nil
}

// List returns the dossiers matching every supplied filter, in insertion order
func (s *DossierService) List(ctx context.Context, filter ListDossiersFilter) (ListResult[DossierResponse], error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return ListResult[DossierResponse]{}, err
	}
	all, err := s.dossiers.FindAll(ctx)
	if err != nil {
		return ListResult[DossierResponse]{}, err
	}
	items := make([]DossierResponse, 0, len(all))
	for _, d := range all {
		if domainFilter.Matches(d) {
			items = append(items, ToDossierResponse(d))
		}
	}
	return newListResult(items), nil
}

func toDomainFilter(f ListDossiersFilter) (localisation.DossierFilter, error) {
	out := localisation.DossierFilter{
		CIN:        f.CIN,
		Nom:        f.Nom,
		BrigadeID:  f.BrigadeID,
		CampagneID: f.CampagneID,
	}
	if f.StatutLocalisation != "" {
		statut, err := localisation.ParseStatutLocalisation(f.StatutLocalisation)
		if err != nil {
			return out, err
		}
		out.Statut = statut
	}
	if f.TypeLocalisation != "" {
		typ, err := localisation.ParseTypeLocalisation(f.TypeLocalisation)
		if err != nil {
			return out, err
		}
		out.Type = typ
	}
	return out, nil
}

// AggregateByCampaign counts dossiers for every campaign of the catalog, in catalog order
func (s *DossierService) AggregateByCampaign(ctx context.Context) ([]CampagneResultResponse, error) {
	campagnes, err := s.catalog.ListCampagnes(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.dossiers.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := localisation.SummarizeByCampagne(campagnes, all)
	out := make([]CampagneResultResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, ToCampagneResultResponse(sum))
	}
	return out, nil
}

// ApplyAction runs one named action against a dossier and returns the updated dossier.
// Validation, lookups and the idempotency check all happen before the dossier is touched.
func (s *DossierService) ApplyAction(ctx context.Context, input ApplyActionInput) (resp *DossierResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dossier", "apply_action",
		attribute.Int("dossier.id", input.DossierID),
		attribute.String("dossier.action", input.Action),
	)
	defer span.End()
	start := s.now()
	log := logger.L(ctx).With(zap.Int("dossier_id", input.DossierID), zap.String("action", input.Action))

	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
			s.metrics.RecordFailure(ctx, input.Action, errorCode(err))
			log.Warn("Dossier action rejected", zap.Error(err))
		}
	}()

	action, err := buildAction(input, s.config.AllowUnassignedTransfer)
	if err != nil {
		return nil, err
	}

	if _, err := s.dossiers.FindByID(ctx, input.DossierID); err != nil {
		return nil, err
	}

	var destination *localisation.Brigade
	if p, ok := action.Transfert(); ok {
		destination, err = s.resolveDestination(ctx, p.BrigadeID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.claimIdempotencyKey(ctx, input); err != nil {
		return nil, err
	}

	actor := input.Actor
	if actor == "" {
		actor = s.config.DefaultActor
	}

	var outcome localisation.ActionOutcome
	updated, err := s.dossiers.Update(ctx, input.DossierID, func(d *localisation.Dossier) error {
		var applyErr error
		outcome, applyErr = d.Apply(action, localisation.ActionContext{
			Actor:       actor,
			At:          s.now(),
			Destination: destination,
		})
		return applyErr
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, input)
		return nil, err
	}

	s.metrics.RecordAction(ctx, action.Kind.String(), s.now().Sub(start))
	if outcome.PV != nil {
		s.metrics.RecordDocument(ctx, "pv", string(outcome.PV.Type))
	}
	if outcome.Bordereau != nil {
		s.metrics.RecordDocument(ctx, "bordereau", string(outcome.Bordereau.Type))
	}
	log.Info("Dossier action applied",
		zap.String("utilisateur", outcome.Entry.Utilisateur),
		zap.String("statut", updated.StatutLocalisation.String()),
		zap.String("type", updated.TypeLocalisation.String()),
	)

	s.publish(ctx, localisation.NewDossierActionApplied(updated, outcome, outcome.Entry.Date))

	out := ToDossierResponse(updated)
	return &out, nil
}

// buildAction parses the action name and payload. A transfert without a brigade
// id is accepted only when unassigned transfers are allowed.
func buildAction(input ApplyActionInput, allowUnassigned bool) (localisation.Action, error) {
	kind, err := localisation.ParseActionKind(input.Action)
	if err != nil {
		return localisation.Action{}, err
	}
	switch kind {
	case localisation.ActionNouvelleAdresse:
		return localisation.NewNouvelleAdresseAction(input.Payload.Adresse, input.Payload.CasParticulier), nil
	case localisation.ActionTransfert:
		if allowUnassigned && input.Payload.BrigadeID == 0 {
			return localisation.NewUnassignedTransfertAction(input.Payload.Commentaire), nil
		}
		return localisation.NewTransfertAction(input.Payload.BrigadeID, input.Payload.Commentaire)
	default:
		return localisation.NewAction(kind)
	}
}

func (s *DossierService) resolveDestination(ctx context.Context, brigadeID int) (*localisation.Brigade, error) {
	if brigadeID == 0 {
		return nil, nil
	}
	b, err := s.catalog.FindBrigade(ctx, brigadeID)
	if err == nil {
		return b, nil
	}
	if errors.Is(err, shared.ErrNotFound) && s.config.AllowUnassignedTransfer {
		logger.L(ctx).Warn("Transfer to unknown brigade, dossier left unassigned", zap.Int("brigade_id", brigadeID))
		return nil, nil
	}
	return nil, err
}

// claimIdempotencyKey records the key for this dossier and action. A key seen
// before within the TTL is a CONFLICT.
func (s *DossierService) claimIdempotencyKey(ctx context.Context, input ApplyActionInput) error {
	if s.idempotency == nil || input.IdempotencyKey == "" {
		return nil
	}
	key := idempotencyKey(input.DossierID, input.Action, input.IdempotencyKey)
	first, err := s.idempotency.MarkProcessed(ctx, key, s.config.IdempotencyTTL)
	if err != nil {
		return fmt.Errorf("failed to record idempotency key: %w", err)
	}
	if !first {
		return shared.NewDomainError(shared.CodeConflict,
			fmt.Sprintf("Action %s already processed for dossier %d with this Idempotency-Key", input.Action, input.DossierID))
	}
	return nil
}

// releaseIdempotencyKey frees a claimed key when the update it guarded did not commit
func (s *DossierService) releaseIdempotencyKey(ctx context.Context, input ApplyActionInput) {
	if s.idempotency == nil || input.IdempotencyKey == "" {
		return
	}
	key := idempotencyKey(input.DossierID, input.Action, input.IdempotencyKey)
	if err := s.idempotency.Release(context.WithoutCancel(ctx), key); err != nil {
		logger.L(ctx).Error("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func idempotencyKey(dossierID int, action, key string) string {
	return "dossier:" + strconv.Itoa(dossierID) + ":" + action + ":" + key
}

func (s *DossierService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("Failed to publish dossier event", zap.Error(err))
	}
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "CANCELED"
	}
	return "INTERNAL"
}
