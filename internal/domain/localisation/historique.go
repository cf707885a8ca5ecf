package localisation

import "time"

// HistoriqueAction is one entry of a dossier's audit trail
type HistoriqueAction struct {
	ID          int
	Date        time.Time
	Utilisateur string
	Action      string
	Commentaire string
}

// RecordHistory prepends an entry so that Historique[0] is always the most recent.
// Entries are never updated or removed.
func (d *Dossier) RecordHistory(actor, label, comment string, at time.Time) HistoriqueAction {
	d.historiqueSeq = max(d.historiqueSeq, maxHistoriqueID(d.Historique)) + 1
	entry := HistoriqueAction{
		ID:          d.historiqueSeq,
		Date:        at,
		Utilisateur: actor,
		Action:      label,
		Commentaire: comment,
	}
	d.Historique = append([]HistoriqueAction{entry}, d.Historique...)
	return entry
}

// LatestHistory returns the most recent history entry
func (d *Dossier) LatestHistory() (HistoriqueAction, bool) {
	if len(d.Historique) == 0 {
		return HistoriqueAction{}, false
	}
	return d.Historique[0], true
}

func maxHistoriqueID(entries []HistoriqueAction) int {
	m := 0
	for _, e := range entries {
		m = max(m, e.ID)
	}
	return m
}
