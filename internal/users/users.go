package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrBadCredentials covers both unknown email and wrong password so
	// login failures do not reveal which one it was.
	ErrBadCredentials = errors.New("invalid email or password")
)

const pgUniqueViolation = "23505"

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// InsertUser hashes the password and stores the user with the default
// USER role.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         nu.Name,
		Email:        strings.ToLower(strings.TrimSpace(nu.Email)),
		PasswordHash: string(hash),
		Roles:        []string{auth.RoleUser},
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = c.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email,
		user.PasswordHash, strings.Join(user.Roles, ",")).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// GetUserByEmail loads a user by email.
func (c *Conf) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	var roles string
	query := `
		SELECT id, name, email, password_hash, roles, created_at, updated_at
		FROM users WHERE email = $1
	`
	err := c.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &roles, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.Roles = strings.Split(roles, ",")
	return user, nil
}

// Authenticate verifies the credentials and returns the user.
func (c *Conf) Authenticate(ctx context.Context, login Login) (User, error) {
	user, err := c.GetUserByEmail(ctx, login.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrBadCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return user, nil
}
