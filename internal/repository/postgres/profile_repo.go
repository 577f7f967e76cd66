package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vmitrev/amora/internal/domain"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `id, email, password_hash, name, age, gender, country, bio,
	interests, photos, main_photo, instagram, discord, created_at, updated_at`

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, name, age, gender, country, bio,
			interests, photos, main_photo, instagram, discord, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.Name, p.Age, p.Gender, p.Country, p.Bio,
		p.Interests, p.Photos, p.MainPhoto, p.Instagram, p.Discord, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return r.scanProfile(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.scanProfile(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
}

// List returns all profiles except the viewer's own, newest first.
func (r *ProfileRepo) List(ctx context.Context, excludeID uuid.UUID) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id <> $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.Age, &p.Gender, &p.Country, &p.Bio,
			&p.Interests, &p.Photos, &p.MainPhoto, &p.Instagram, &p.Discord, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, age = $2, gender = $3, country = $4, bio = $5, interests = $6,
			photos = $7, main_photo = $8, instagram = $9, discord = $10, updated_at = $11
		WHERE id = $12`

	_, err := r.pool.Exec(ctx, query,
		p.Name, p.Age, p.Gender, p.Country, p.Bio, p.Interests,
		p.Photos, p.MainPhoto, p.Instagram, p.Discord, p.UpdatedAt, p.ID,
	)
	return err
}

func (r *ProfileRepo) scanProfile(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.Age, &p.Gender, &p.Country, &p.Bio,
		&p.Interests, &p.Photos, &p.MainPhoto, &p.Instagram, &p.Discord, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}
