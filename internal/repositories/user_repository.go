package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"msg-api/internal/models"
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, username, displayName, mail, credentialHash string) (models.User, error)
	GetByID(ctx context.Context, userID int64) (models.User, error)
	UpdateCredentialHash(ctx context.Context, userID int64, oldHash, newHash string) (bool, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user. A duplicate username or mail surfaces as a
// *ConflictError naming the colliding field; concurrent registrations race at
// the unique constraint and exactly one wins.
func (r *UserRepo) Create(ctx context.Context, username, displayName, mail, credentialHash string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, display_name, mail, credential_hash)
         VALUES ($1, $2, $3, $4)
         RETURNING id, username, display_name, mail, credential_hash, credential_updated_at, created_at`,
		username, displayName, mail, credentialHash).StructScan(&user)
	if err != nil {
		return models.User{}, mapConflict(err)
	}
	return user, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, display_name, mail, credential_hash, credential_updated_at, created_at
         FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateCredentialHash swaps the stored hash for a recomputed one. The guard
// on the old hash keeps a login-time rehash from clobbering a concurrent
// password change; false means the stored hash moved underneath us.
func (r *UserRepo) UpdateCredentialHash(ctx context.Context, userID int64, oldHash, newHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET credential_hash=$2, credential_updated_at=NOW()
         WHERE id=$1 AND credential_hash=$3`,
		userID, newHash, oldHash)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count == 1, nil
}
