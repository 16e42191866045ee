package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_portal/internal/common"
	"catalog_portal/internal/domain/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) (bool, error)
}

const userColumns = `id, username, name, last_name, email, user_type, password_hash, create_date`

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

// Create inserts user and fills in the database-assigned create_date.
func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, name, last_name, email, user_type, password_hash)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING create_date`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Name, user.LastName, user.Email, user.UserType, user.PasswordHash,
	).Scan(&user.CreateDate)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Create: %w", classify(err))
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY create_date, username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("pgUserRepository.List scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	return users, nil
}

// Update writes every mutable column. create_date is never touched.
func (r *pgUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users
	          SET username = $2, name = $3, last_name = $4, email = $5, user_type = $6, password_hash = $7
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Name, user.LastName, user.Email, user.UserType, user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Update: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete reports whether a row was removed. Unknown or malformed ids are not errors.
func (r *pgUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Name, &user.LastName, &user.Email, &user.UserType, &user.PasswordHash, &user.CreateDate,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// classify maps constraint violations onto the common taxonomy.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // Unique constraint violation
			return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
		case "23502":
			return fmt.Errorf("missing required user field %s: %w", pgErr.ColumnName, common.ErrValidation)
		}
	}
	return err
}
