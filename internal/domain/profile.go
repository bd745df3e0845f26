package domain

import (
	"fmt"
	"maps"
)

// DefaultGroupName is the group every new account joins / Groupe rejoint par chaque nouveau compte
const DefaultGroupName = "Basic User"

// Group is a named set of users / Ensemble nommé d'utilisateurs
type Group struct {
	ID   int64
	Name string
}

// Profile is the auxiliary record created with each user / Enregistrement auxiliaire créé avec chaque utilisateur
type Profile struct {
	BaseModel
	ID       int64
	UserID   int64
	Username string
	History  map[string]any
	IsActive bool
	IsStaff  bool
}

// NewProfile returns the default profile for a user / Retourne le profil par défaut d'un utilisateur
func NewProfile(u *User) *Profile {
	return &Profile{
		UserID:   u.ID,
		Username: u.Username,
		History:  map[string]any{},
		IsActive: true,
	}
}

// String formats the profile label / Formate le libellé du profil
func (p *Profile) String() string {
	return fmt.Sprintf("%s's profile id: %d", p.Username, p.ID)
}

// Record merges an entry into the history / Fusionne une entrée dans l'historique
func (p *Profile) Record(key string, value any) {
	if p.History == nil {
		p.History = map[string]any{}
	}
	p.History[key] = value
}

// HistorySnapshot returns a copy of the history / Retourne une copie de l'historique
func (p *Profile) HistorySnapshot() map[string]any {
	return maps.Clone(p.History)
}
