// Package postgres implements the store interfaces against a PostgreSQL
// database whose write and read paths are exposed exclusively as stored
// routines. Each method issues a single SELECT against one routine; the
// routine is the atomic unit of work and the authoritative enforcer of
// uniqueness and existence.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/userdir-io/userdir/internal/domain"
	"github.com/userdir-io/userdir/internal/store"
)

// userColumns is the column list every user-returning routine yields,
// in the order scanUser expects.
const userColumns = "id, first_name, last_name, email, password_hash, created_at, updated_at"

// PostgresUserStore implements the store.UserStore interface
// using PostgreSQL stored routines as the storage backend.
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection that should be
// initialized and managed by the caller.
func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{
		db: db,
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// rowScanner abstracts *sql.Row and *sql.Rows for scanUser.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one user row in userColumns order.
func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.HashedPassword,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create implements store.UserStore.Create by calling the create_user
// routine. The routine inserts the row and returns it with the assigned
// ID and timestamps; a duplicate email surfaces as a unique violation
// from the routine's INSERT, mapped to store.ErrEmailExists.
func (s *PostgresUserStore) Create(
	ctx context.Context,
	params store.CreateUserParams,
) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM create_user($1, $2, $3, $4)", userColumns)

	row := s.db.QueryRowContext(
		ctx,
		query,
		params.FirstName,
		params.LastName,
		params.Email,
		params.PasswordHash,
	)

	user, err := scanUser(row)
	if err != nil {
		return nil, store.NewStoreError("user", "create", "stored routine failed", MapError(err))
	}
	return user, nil
}

// GetByID implements store.UserStore.GetByID via the get_user_by_id routine.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM get_user_by_id($1)", userColumns)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, MapError(err)
	}
	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail via the get_user_by_email routine.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM get_user_by_email($1)", userColumns)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, MapError(err)
	}
	return user, nil
}

// List implements store.UserStore.List via the get_all_users routine.
// The routine orders by ID, so pages are stable in insertion order.
func (s *PostgresUserStore) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM get_all_users($1, $2)", userColumns)

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, store.NewStoreError("user", "list", "stored routine failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, store.NewStoreError("user", "list", "row scan failed", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", "row iteration failed", err)
	}

	return users, nil
}

// Count implements store.UserStore.Count via the count_users routine.
func (s *PostgresUserStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT count_users()").Scan(&total); err != nil {
		return 0, store.NewStoreError("user", "count", "stored routine failed", MapError(err))
	}
	return total, nil
}

// Update implements store.UserStore.Update by calling the update_user
// routine. A nil PasswordHash is passed as SQL NULL, which tells the
// routine to retain the stored hash. The routine raises no_data_found
// for a missing user and a unique violation for a colliding email; both
// are mapped to store sentinels.
func (s *PostgresUserStore) Update(
	ctx context.Context,
	id int64,
	params store.UpdateUserParams,
) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM update_user($1, $2, $3, $4, $5)", userColumns)

	var passwordHash sql.NullString
	if params.PasswordHash != nil {
		passwordHash = sql.NullString{String: *params.PasswordHash, Valid: true}
	}

	row := s.db.QueryRowContext(
		ctx,
		query,
		id,
		params.FirstName,
		params.LastName,
		params.Email,
		passwordHash,
	)

	user, err := scanUser(row)
	if err != nil {
		return nil, MapError(err)
	}
	return user, nil
}

// Delete implements store.UserStore.Delete via the delete_user routine,
// which returns the number of rows removed. A zero count is returned
// as-is; the caller decides whether that is a not-found condition.
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	if err := s.db.QueryRowContext(ctx, "SELECT delete_user($1)", id).Scan(&deleted); err != nil {
		return 0, store.NewStoreError("user", "delete", "stored routine failed", MapError(err))
	}
	return deleted, nil
}
