package domain

import "time"

// BaseModel provides common timestamp fields / Fournit les champs d'horodatage communs
type BaseModel struct {
	CreatedAt time.Time // Record creation time / Heure de création de l'enregistrement
	UpdatedAt time.Time // Record last update time / Heure de dernière mise à jour
}

// Touch sets timestamps for a save / Positionne les horodatages pour une sauvegarde
func (bm *BaseModel) Touch(now time.Time) {
	if bm.CreatedAt.IsZero() {
		bm.CreatedAt = now
	}
	bm.UpdatedAt = now
}
