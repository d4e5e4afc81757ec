package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badoux/checkmail"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"payment-dashboard/internal/models"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so that login never reveals which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrDuplicateUser indicates a username or email uniqueness conflict.
var ErrDuplicateUser = errors.New("user with this username or email already exists")

// ErrInvalidInput marks request validation failures.
var ErrInvalidInput = errors.New("invalid input")

type UserService struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewUserService(db *sqlx.DB, logger zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

func validateNewUser(req *models.CreateUserRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: username, email, and password are required", ErrInvalidInput)
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		return fmt.Errorf("%w: role must be admin or viewer", ErrInvalidInput)
	}
	return nil
}

// Create registers a new user. Role defaults to viewer when omitted.
func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := validateNewUser(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = string(models.RoleViewer)
	}

	var existingID int
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE username = $1 OR email = $2", req.Username, req.Email,
	).Scan(&existingID)
	if err == nil {
		return nil, ErrDuplicateUser
	} else if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user models.User
	err = s.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, username, email, password_hash, role, created_at, updated_at`,
		req.Username, req.Email, string(hashedPassword), role,
	).StructScan(&user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User created")
	return &user, nil
}

// Authenticate looks up a user by exact username and verifies the password
// against the stored bcrypt hash.
func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.QueryRowxContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at, updated_at
		 FROM users WHERE username = $1`,
		req.Username,
	).StructScan(&user)

	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// List returns all users. The password hash column is never selected.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT id, username, email, role, created_at, updated_at
		 FROM users ORDER BY id`,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing users")
		return nil, fmt.Errorf("database error: %w", err)
	}
	return users, nil
}

// SeedAdminUser ensures the default admin account exists. The insert is keyed
// on the username so repeated startups are safe.
func (s *UserService) SeedAdminUser(ctx context.Context) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ('admin', 'admin@example.com', $1, 'admin')
		 ON CONFLICT (username) DO NOTHING`,
		string(hashedPassword),
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Info().Msg("Seeded default admin user")
	}
	return nil
}
