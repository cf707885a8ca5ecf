package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// StatusCounter reports how many dossiers currently sit in each localisation status
type StatusCounter interface {
	CountByStatut(ctx context.Context) (map[string]int64, error)
}

// DossierMetrics records action engine activity
type DossierMetrics struct {
	logger          *zap.Logger
	actionsTotal    *Counter
	actionFailures  *Counter
	documentsIssued *Counter
	actionDuration  *Histogram
	registration    metric.Registration
}

// NewDossierMetrics creates the dossier instruments on the given meter.
// When statuses is non-nil an observable gauge localisation_dossiers{statut} is registered.
func NewDossierMetrics(meter metric.Meter, statuses StatusCounter, logger *zap.Logger) (*DossierMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dm := &DossierMetrics{logger: logger}

	var err error
	if dm.actionsTotal, err = NewCounter(meter,
		"localisation_dossier_actions_total", "Actions applied to dossiers", "{actions}"); err != nil {
		return nil, err
	}
	if dm.actionFailures, err = NewCounter(meter,
		"localisation_dossier_action_failures_total", "Actions rejected or failed", "{actions}"); err != nil {
		return nil, err
	}
	if dm.documentsIssued, err = NewCounter(meter,
		"localisation_documents_issued_total", "PVs and bordereaux issued", "{documents}"); err != nil {
		return nil, err
	}
	if dm.actionDuration, err = NewHistogram(meter,
		"localisation_dossier_action_duration_seconds", "Time spent applying an action", "s",
		0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5); err != nil {
		return nil, err
	}

	if statuses != nil {
		gauge, err := meter.Int64ObservableGauge("localisation_dossiers",
			metric.WithDescription("Dossiers per localisation status"),
			metric.WithUnit("{dossiers}"))
		if err != nil {
			return nil, &MetricsError{Op: "NewDossierMetrics", Err: err.Error()}
		}
		dm.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			counts, err := statuses.CountByStatut(ctx)
			if err != nil {
				dm.logger.Warn("failed to collect dossier status counts", zap.Error(err))
				return nil
			}
			for statut, n := range counts {
				o.ObserveInt64(gauge, n, metric.WithAttributes(attribute.String("statut", statut)))
			}
			return nil
		}, gauge)
		if err != nil {
			return nil, &MetricsError{Op: "NewDossierMetrics", Err: err.Error()}
		}
	}
	return dm, nil
}

// RecordAction records one successfully applied action
func (dm *DossierMetrics) RecordAction(ctx context.Context, action string, elapsed time.Duration) {
	if dm == nil {
		return
	}
	attrs := attribute.String("action", action)
	dm.actionsTotal.Inc(ctx, attrs)
	dm.actionDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordFailure records a rejected action with the error code that caused it
func (dm *DossierMetrics) RecordFailure(ctx context.Context, action, code string) {
	if dm == nil {
		return
	}
	dm.actionFailures.Inc(ctx, attribute.String("action", action), attribute.String("code", code))
}

// RecordDocument records one issued document; kind is "pv" or "bordereau"
func (dm *DossierMetrics) RecordDocument(ctx context.Context, kind, docType string) {
	if dm == nil {
		return
	}
	dm.documentsIssued.Inc(ctx, attribute.String("kind", kind), attribute.String("type", docType))
}

// Close unregisters the status gauge callback
func (dm *DossierMetrics) Close() error {
	if dm == nil || dm.registration == nil {
		return nil
	}
	return dm.registration.Unregister()
}

// ErrMeterNil is returned when meter is nil
var ErrMeterNil = &MetricsError{Op: "NewDossierMetrics", Err: "meter cannot be nil"}

// MetricsError represents an error in metrics operations
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
