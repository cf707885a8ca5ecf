package localisation

import (
	"strconv"
	"time"

	"github.com/localisation/backend/internal/domain/shared"
)

const (
	// AggregateTypeDossier is the aggregate type carried by dossier events
	AggregateTypeDossier = "dossier"
	// EventTypeActionApplied is emitted after an action is committed
	EventTypeActionApplied = "action_applied"
)

// DossierActionApplied is published once per committed action
type DossierActionApplied struct {
	shared.BaseDomainEvent
	DossierID          int                `json:"dossierId"`
	Action             ActionKind         `json:"action"`
	StatutLocalisation StatutLocalisation `json:"statutLocalisation"`
	TypeLocalisation   TypeLocalisation   `json:"typeLocalisation"`
	PVIDs              []int              `json:"pvIds"`
	BordereauIDs       []int              `json:"bordereauIds"`
	Utilisateur        string             `json:"utilisateur"`
}

// NewDossierActionApplied builds the event from the committed dossier and the action outcome
func NewDossierActionApplied(d *Dossier, outcome ActionOutcome, at time.Time) *DossierActionApplied {
	e := &DossierActionApplied{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeActionApplied, AggregateTypeDossier, strconv.Itoa(d.ID), at),
		DossierID:          d.ID,
		Action:             outcome.Kind,
		StatutLocalisation: d.StatutLocalisation,
		TypeLocalisation:   d.TypeLocalisation,
		PVIDs:              []int{},
		BordereauIDs:       []int{},
		Utilisateur:        outcome.Entry.Utilisateur,
	}
	if outcome.PV != nil {
		e.PVIDs = append(e.PVIDs, outcome.PV.ID)
	}
	if outcome.Bordereau != nil {
		e.BordereauIDs = append(e.BordereauIDs, outcome.Bordereau.ID)
	}
	return e
}
