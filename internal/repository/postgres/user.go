package postgres

import (
	"context"
	"database/sql"
	"time"

	"ekyc/internal/domain"
	"ekyc/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, first_name, last_name, username, email, phone, role, email_verified,
	phone_verified, verified, profile_completion, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `
		) VALUES (
			:id, :first_name, :last_name, :username, :email, :phone, :role, :email_verified,
			:phone_verified, :verified, :profile_completion, :created_at, :updated_at
		)
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
			return translate(err, "failed to create user")
		}
		switch {
		case user.Admin != nil:
			_, err := tx.ExecContext(ctx,
				`INSERT INTO admin_profiles (user_id, department) VALUES ($1, $2)`,
				user.ID, user.Admin.Department)
			return errors.Wrap(err, "failed to create admin profile")
		case user.Customer != nil:
			_, err := tx.ExecContext(ctx,
				`INSERT INTO customer_profiles (user_id, photo_media_id) VALUES ($1, $2)`,
				user.ID, user.Customer.PhotoMediaID)
			return errors.Wrap(err, "failed to create customer profile")
		}
		return nil
	})
}

// FindByID loads the user together with the profile block matching its role.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to find user by id")
	}

	switch user.Role {
	case domain.RoleAdmin:
		profile := &domain.AdminProfile{}
		err := r.db.GetContext(ctx, profile, `SELECT department FROM admin_profiles WHERE user_id = $1`, id)
		if err != nil && err != sql.ErrNoRows {
			return nil, errors.Wrap(err, "failed to load admin profile")
		}
		if err == nil {
			user.Admin = profile
		}
	case domain.RoleCustomer:
		profile := &domain.CustomerProfile{}
		err := r.db.GetContext(ctx, profile, `SELECT photo_media_id FROM customer_profiles WHERE user_id = $1`, id)
		if err != nil && err != sql.ErrNoRows {
			return nil, errors.Wrap(err, "failed to load customer profile")
		}
		if err == nil {
			user.Customer = profile
		}
	}
	return user, nil
}

func (r *UserRepository) UpdateProfileCompletion(ctx context.Context, id uuid.UUID, completion int, verified bool, at time.Time) error {
	query := `
		UPDATE users
		SET profile_completion = $1, verified = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, completion, verified, at, id)
	if err != nil {
		return errors.Wrap(err, "failed to update profile completion")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}
