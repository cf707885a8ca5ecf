package localisation

import (
	"fmt"
	"strings"

	"github.com/localisation/backend/internal/domain/shared"
)

// ActionKind names one of the fixed actions a field agent can apply to a dossier
type ActionKind string

const (
	ActionConfirmerAdresse ActionKind = "confirmer-adresse"
	ActionNouvelleAdresse  ActionKind = "nouvelle-adresse"
	ActionAdresseInconnue  ActionKind = "adresse-inconnue"
	ActionTransfert        ActionKind = "transfert"
	ActionMarquerDecede    ActionKind = "marquer-decede"
	ActionMarquerEcroue    ActionKind = "marquer-ecroue"
	ActionMarquerEtranger  ActionKind = "marquer-etranger"
	ActionMarquerInapte    ActionKind = "marquer-inapte"
	ActionCasParticulier   ActionKind = "cas-particulier"
	ActionAucuneAction     ActionKind = "aucune-action"
)

// IsValid checks if the kind has a row in the transition table
func (k ActionKind) IsValid() bool {
	_, ok := TransitionFor(k)
	return ok
}

// String returns the route name of the action
func (k ActionKind) String() string {
	return string(k)
}

// RequiresPayload reports whether the action carries its own payload
func (k ActionKind) RequiresPayload() bool {
	return k == ActionNouvelleAdresse || k == ActionTransfert
}

// ParseActionKind resolves an action name
func ParseActionKind(name string) (ActionKind, error) {
	k := ActionKind(strings.TrimSpace(name))
	if !k.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("Unknown action %q", name))
	}
	return k, nil
}

// NouvelleAdressePayload carries the new address reported by the agent
type NouvelleAdressePayload struct {
	Adresse        string
	CasParticulier bool
}

// TransfertPayload designates the destination brigade of a transfer
type TransfertPayload struct {
	BrigadeID   int
	Commentaire string
}

// Action is a tagged variant: Kind selects the transition row and at most one
// payload is set, matching the kind.
type Action struct {
	Kind            ActionKind
	nouvelleAdresse *NouvelleAdressePayload
	transfert       *TransfertPayload
}

// NewAction builds a payload-free action
func NewAction(kind ActionKind) (Action, error) {
	if !kind.IsValid() {
		return Action{}, shared.NewValidationError(fmt.Sprintf("Unknown action %q", kind))
	}
	if kind.RequiresPayload() {
		return Action{}, shared.NewValidationError(fmt.Sprintf("Action %s requires a payload", kind))
	}
	return Action{Kind: kind}, nil
}

// NewNouvelleAdresseAction builds a nouvelle-adresse action
func NewNouvelleAdresseAction(adresse string, casParticulier bool) Action {
	return Action{
		Kind:            ActionNouvelleAdresse,
		nouvelleAdresse: &NouvelleAdressePayload{Adresse: adresse, CasParticulier: casParticulier},
	}
}

// NewTransfertAction builds a transfert action
func NewTransfertAction(brigadeID int, commentaire string) (Action, error) {
	if brigadeID <= 0 {
		return Action{}, shared.NewValidationError("brigadeId must be a positive integer")
	}
	return Action{
		Kind:      ActionTransfert,
		transfert: &TransfertPayload{BrigadeID: brigadeID, Commentaire: commentaire},
	}, nil
}

// NewUnassignedTransfertAction builds a transfert with no destination brigade
func NewUnassignedTransfertAction(commentaire string) Action {
	return Action{
		Kind:      ActionTransfert,
		transfert: &TransfertPayload{Commentaire: commentaire},
	}
}

// NouvelleAdresse returns the nouvelle-adresse payload when present
func (a Action) NouvelleAdresse() (NouvelleAdressePayload, bool) {
	if a.nouvelleAdresse == nil {
		return NouvelleAdressePayload{}, false
	}
	return *a.nouvelleAdresse, true
}

// Transfert returns the transfert payload when present
func (a Action) Transfert() (TransfertPayload, bool) {
	if a.transfert == nil {
		return TransfertPayload{}, false
	}
	return *a.transfert, true
}

// Validate checks that the payload matches the kind
func (a Action) Validate() error {
	if !a.Kind.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unknown action %q", a.Kind))
	}
	switch a.Kind {
	case ActionNouvelleAdresse:
		if a.nouvelleAdresse == nil || a.transfert != nil {
			return shared.NewValidationError("nouvelle-adresse requires an address payload")
		}
	case ActionTransfert:
		if a.transfert == nil || a.nouvelleAdresse != nil {
			return shared.NewValidationError("transfert requires a brigade payload")
		}
		if a.transfert.BrigadeID < 0 {
			return shared.NewValidationError("brigadeId must be a positive integer")
		}
	default:
		if a.nouvelleAdresse != nil || a.transfert != nil {
			return shared.NewValidationError(fmt.Sprintf("Action %s takes no payload", a.Kind))
		}
	}
	return nil
}
