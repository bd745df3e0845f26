package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
	"github.com/goccy/go-json"
)

var _ ports.ProfileRepository = (*profileRepository)(nil)

type profileRepository struct {
	store
}

// NewProfileRepository creates profile repository / Crée le repository des profils
func NewProfileRepository(conn *sql.DB, dialect db.Dialect) ports.ProfileRepository {
	return &profileRepository{store: newStore(conn, dialect)}
}

// WithTx returns repository with transaction / Retourne le repository avec transaction
func (r *profileRepository) WithTx(dbtx ports.DBTX) ports.ProfileRepository {
	return &profileRepository{store: newStore(dbtx, r.dialect)}
}

// Create inserts a profile / Insère un profil
func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	history, err := encodeHistory(p.History)
	if err != nil {
		return nil, err
	}
	p.Touch(time.Now().UTC())

	p.ID, err = r.insert(ctx,
		`INSERT INTO profiles (user_id, history, is_active, is_staff, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, history, p.IsActive, p.IsStaff, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByUserID retrieves a profile with its username / Récupère un profil avec le nom d'utilisateur
func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	p := &domain.Profile{}
	var history string
	err := r.queryRow(ctx, `
		SELECT p.id, p.user_id, u.username, p.history, p.is_active, p.is_staff, p.created_at, p.updated_at
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?`, userID).Scan(
		&p.ID, &p.UserID, &p.Username, &history, &p.IsActive, &p.IsStaff, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}

	if p.History, err = decodeHistory(history); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateHistory replaces the history document / Remplace le document d'historique
func (r *profileRepository) UpdateHistory(ctx context.Context, profileID int64, history map[string]any) error {
	doc, err := encodeHistory(history)
	if err != nil {
		return err
	}
	res, err := r.exec(ctx, `UPDATE profiles SET history = ?, updated_at = ? WHERE id = ?`,
		doc, time.Now().UTC(), profileID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func encodeHistory(history map[string]any) (string, error) {
	if history == nil {
		return "{}", nil
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("encode profile history: %w", err)
	}
	return string(b), nil
}

func decodeHistory(doc string) (map[string]any, error) {
	history := map[string]any{}
	if doc == "" {
		return history, nil
	}
	if err := json.Unmarshal([]byte(doc), &history); err != nil {
		return nil, fmt.Errorf("decode profile history: %w", err)
	}
	return history, nil
}
