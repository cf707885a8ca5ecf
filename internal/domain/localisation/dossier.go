package localisation

import (
	"strings"
	"time"

	"github.com/localisation/backend/internal/domain/shared"
)

// SystemActor is recorded in the history when no authenticated user applies an action
const SystemActor = "systeme"

// Dossier is the localisation case opened against one reservist for one campaign.
// Reserviste and Campagne are fixed at creation; Brigade only changes on transfer.
type Dossier struct {
	ID                 int
	DateReception      time.Time
	DateMiseAJour      time.Time
	StatutLocalisation StatutLocalisation
	TypeLocalisation   TypeLocalisation
	AdresseInvestiguer string
	Reserviste         Reserviste
	Campagne           Campagne
	Brigade            *Brigade
	PVs                []PV
	Bordereaux         []Bordereau
	Historique         []HistoriqueAction

	// per-dossier id counters; only advanced under the dossier's lock
	pvSeq         int
	bordereauSeq  int
	historiqueSeq int
}

// NewDossier opens a dossier in EnCours/Reference. The id is assigned by the store.
func NewDossier(reserviste Reserviste, campagne Campagne, brigade *Brigade, adresse string, receivedAt time.Time) (*Dossier, error) {
	if strings.TrimSpace(reserviste.CIN) == "" {
		return nil, shared.NewValidationError("Reservist CIN cannot be empty")
	}
	if campagne.ID <= 0 {
		return nil, shared.NewValidationError("Dossier must belong to a campaign")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	if adresse == "" {
		adresse = reserviste.AdresseReference
	}
	return &Dossier{
		DateReception:      receivedAt,
		DateMiseAJour:      receivedAt,
		StatutLocalisation: StatutEnCours,
		TypeLocalisation:   TypeReference,
		AdresseInvestiguer: adresse,
		Reserviste:         reserviste,
		Campagne:           campagne,
		Brigade:            cloneBrigade(brigade),
		PVs:                []PV{},
		Bordereaux:         []Bordereau{},
		Historique:         []HistoriqueAction{},
	}, nil
}

// ActionContext carries what an action needs besides its payload
type ActionContext struct {
	Actor string
	At    time.Time
	// Destination is the resolved brigade of a transfert; nil leaves the dossier unassigned
	Destination *Brigade
}

// ActionOutcome reports the side effects of one applied action
type ActionOutcome struct {
	Kind      ActionKind
	PV        *PV
	Bordereau *Bordereau
	Entry     HistoriqueAction
}

// Apply runs one action against the dossier following the transition table.
// Every successful call stamps DateMiseAJour and prepends exactly one history entry.
func (d *Dossier) Apply(action Action, actx ActionContext) (ActionOutcome, error) {
	if err := action.Validate(); err != nil {
		return ActionOutcome{}, err
	}
	tr, _ := TransitionFor(action.Kind)

	at := actx.At
	if at.IsZero() {
		at = time.Now()
	}
	if at.Before(d.DateMiseAJour) {
		at = d.DateMiseAJour
	}
	actor := actx.Actor
	if actor == "" {
		actor = SystemActor
	}

	if tr.Statut != "" {
		d.StatutLocalisation = tr.Statut
	}
	if tr.Type != "" {
		d.TypeLocalisation = tr.Type
	}

	var comment string
	switch action.Kind {
	case ActionNouvelleAdresse:
		p, _ := action.NouvelleAdresse()
		if strings.TrimSpace(p.Adresse) != "" {
			d.AdresseInvestiguer = p.Adresse
		}
		comment = p.Adresse
	case ActionTransfert:
		p, _ := action.Transfert()
		d.Brigade = cloneBrigade(actx.Destination)
		comment = p.Commentaire
	}

	label, pvSpec := tr.resolve(action)
	outcome := ActionOutcome{Kind: action.Kind}
	if pvSpec != nil {
		pv := d.IssuePV(pvSpec.Type, pvSpec.Motif, at)
		outcome.PV = &pv
	}
	if tr.Bordereau != "" {
		b := d.IssueBordereau(tr.Bordereau, at)
		outcome.Bordereau = &b
	}
	outcome.Entry = d.RecordHistory(actor, label, comment, at)
	d.DateMiseAJour = at

	return outcome, nil
}

// BrigadeID returns the assigned brigade id, or 0 when unassigned
func (d *Dossier) BrigadeID() int {
	if d.Brigade == nil {
		return 0
	}
	return d.Brigade.ID
}

// Clone returns a deep copy that shares no slices with the receiver
func (d *Dossier) Clone() *Dossier {
	if d == nil {
		return nil
	}
	c := *d
	c.Brigade = cloneBrigade(d.Brigade)
	c.PVs = append(make([]PV, 0, len(d.PVs)), d.PVs...)
	c.Bordereaux = append(make([]Bordereau, 0, len(d.Bordereaux)), d.Bordereaux...)
	c.Historique = append(make([]HistoriqueAction, 0, len(d.Historique)), d.Historique...)
	return &c
}

func cloneBrigade(b *Brigade) *Brigade {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
