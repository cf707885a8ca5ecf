package localisation

// PVSpec describes the PV a transition issues
type PVSpec struct {
	Type  PVType
	Motif string
}

// Transition is one row of the action table. Empty Statut/Type leave the
// dossier's current values untouched; a nil PV and empty Bordereau issue nothing.
type Transition struct {
	Kind      ActionKind
	Statut    StatutLocalisation
	Type      TypeLocalisation
	PV        *PVSpec
	Bordereau BordereauType
	Label     string

	// Special-case override used by nouvelle-adresse when casParticulier is set
	CasParticulierLabel string
	CasParticulierPV    *PVSpec
}

const (
	motifCasParticulier  = "Cas particulier"
	motifAdresseInconnue = "Adresse inconnue"
	motifHorsZone        = "Adresse hors zone"
)

var transitionsTable = []Transition{
	{Kind: ActionConfirmerAdresse, Statut: StatutLocalise, Type: TypeReference, Label: "Adresse confirmée"},
	{
		Kind: ActionNouvelleAdresse, Statut: StatutLocalise, Type: TypeNouvelleAdresse, Label: "Nouvelle adresse",
		CasParticulierLabel: "Cas particulier - PV obligatoire",
		CasParticulierPV:    &PVSpec{Type: PVAutre, Motif: motifCasParticulier},
	},
	{
		Kind: ActionAdresseInconnue, Statut: StatutNonLocalise, Type: TypeInconnue,
		PV:    &PVSpec{Type: PVNonLocalisation, Motif: motifAdresseInconnue},
		Label: "Adresse inconnue / PV non-localisation",
	},
	{
		Kind: ActionTransfert, Statut: StatutTransfere, Type: TypeReference,
		PV:        &PVSpec{Type: PVTransfert, Motif: motifHorsZone},
		Bordereau: BordereauTransfert,
		Label:     "Transfert vers autre brigade",
	},
	{Kind: ActionMarquerDecede, Statut: StatutLocalise, Type: TypeDecede, PV: &PVSpec{Type: PVDecede, Motif: "Décès signalé"}, Label: "PV Décédé"},
	{Kind: ActionMarquerEcroue, Statut: StatutLocalise, Type: TypeEcroue, PV: &PVSpec{Type: PVEcroue, Motif: "Écroué"}, Label: "PV Écroué"},
	{Kind: ActionMarquerEtranger, Statut: StatutLocalise, Type: TypeAEtranger, PV: &PVSpec{Type: PVAEtranger, Motif: "À l'étranger"}, Label: "PV Étranger"},
	{Kind: ActionMarquerInapte, Statut: StatutLocalise, Type: TypeInapte, PV: &PVSpec{Type: PVInapte, Motif: "Inapte"}, Label: "PV Inapte"},
	{Kind: ActionCasParticulier, PV: &PVSpec{Type: PVAutre, Motif: motifCasParticulier}, Label: "Cas particulier"},
	{Kind: ActionAucuneAction, Label: "Aucune action requise"},
}

// TransitionFor returns the table row for an action kind
func TransitionFor(kind ActionKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.Kind == kind {
			return tr, true
		}
	}
	return Transition{}, false
}

// Transitions returns a copy of the whole table, in declaration order
func Transitions() []Transition {
	out := make([]Transition, len(transitionsTable))
	copy(out, transitionsTable)
	return out
}

// ActionKinds lists every known action name
func ActionKinds() []ActionKind {
	kinds := make([]ActionKind, len(transitionsTable))
	for i, tr := range transitionsTable {
		kinds[i] = tr.Kind
	}
	return kinds
}

// resolve picks the label and PV for a concrete action
func (tr Transition) resolve(action Action) (string, *PVSpec) {
	if p, ok := action.NouvelleAdresse(); ok && p.CasParticulier && tr.CasParticulierLabel != "" {
		return tr.CasParticulierLabel, tr.CasParticulierPV
	}
	return tr.Label, tr.PV
}
