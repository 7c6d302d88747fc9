package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/store"
)

const entityUser = "user"

const userColumns = `id, username, full_name, email, password_hash, roles, email_verified, created_at, updated_at`

type userRow struct {
	ID            string         `db:"id"`
	Username      string         `db:"username"`
	FullName      string         `db:"full_name"`
	Email         string         `db:"email"`
	PasswordHash  string         `db:"password_hash"`
	Roles         pq.StringArray `db:"roles"`
	EmailVerified bool           `db:"email_verified"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r userRow) model() models.User {
	roles := []string(r.Roles)
	if roles == nil {
		roles = []string{}
	}
	return models.User{
		ID:            r.ID,
		Username:      r.Username,
		FullName:      r.FullName,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		Roles:         roles,
		EmailVerified: r.EmailVerified,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (d *DB) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := d.db.GetContext(ctx, &n, `SELECT count(*) FROM users`)
	return n, pgErr(entityUser, err)
}

func (d *DB) CountUsersWithRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := d.db.GetContext(ctx, &n, `SELECT count(*) FROM users WHERE $1 = ANY(roles)`, role)
	return n, pgErr(entityUser, err)
}

func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	if u.Roles == nil {
		u.Roles = []string{}
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.FullName, u.Email, u.PasswordHash, pq.Array(u.Roles), u.EmailVerified, u.CreatedAt, u.UpdatedAt,
	)
	return pgErr(entityUser, err)
}

func (d *DB) ClaimFirstUser(ctx context.Context, userID string) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO bootstrap_claims (name, user_id) VALUES ('first_user', $1) ON CONFLICT (name) DO NOTHING`,
		userID,
	)
	if err != nil {
		return false, pgErr(entityUser, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, store.Internal(entityUser, err)
	}
	return n == 1, nil
}

func (d *DB) getUser(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	var row userRow
	if err := d.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg); err != nil {
		return nil, pgErr(entityUser, err)
	}
	u := row.model()
	return &u, nil
}

func (d *DB) UserByID(ctx context.Context, id string) (*models.User, error) {
	return d.getUser(ctx, "id", id)
}

func (d *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.getUser(ctx, "email", email)
}

func (d *DB) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.getUser(ctx, "username", username)
}

func (d *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := d.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY created_at`); err != nil {
		return nil, pgErr(entityUser, err)
	}
	out := make([]models.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (d *DB) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) error {
	var s setter
	if upd.Username != nil {
		s.add("username", *upd.Username)
	}
	if upd.FullName != nil {
		s.add("full_name", *upd.FullName)
	}
	if upd.Email != nil {
		s.add("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		s.add("password_hash", *upd.PasswordHash)
	}
	if upd.Roles != nil {
		s.add("roles", pq.Array(*upd.Roles))
	}
	if upd.EmailVerified != nil {
		s.add("email_verified", *upd.EmailVerified)
	}
	q, args := s.update("users", id)
	res, err := d.db.ExecContext(ctx, q, args...)
	if err != nil {
		return pgErr(entityUser, err)
	}
	return rowsAffected(entityUser, res)
}

// DeleteUser removes the user; their posts go with them through ON DELETE CASCADE.
func (d *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return pgErr(entityUser, err)
	}
	return rowsAffected(entityUser, res)
}
