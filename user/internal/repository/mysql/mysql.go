package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cineview/configs"
	"cineview/pkg/logging"
	"cineview/user/internal/repository"
	"cineview/user/pkg/model"

	"github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	tracerID = "user-repository-mysql"

	errDuplicateEntry = 1062
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(24) PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at DATETIME(3) NOT NULL,
		updated_at DATETIME(3) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id CHAR(24) NOT NULL,
		movie_id CHAR(24) NOT NULL,
		added_at DATETIME(3) NOT NULL,
		PRIMARY KEY (user_id, movie_id),
		INDEX favorites_movie (movie_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
}

// Repository defines a MySQL-based user repository. Favorites live in
// their own table keyed by (user_id, movie_id).
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates a new MySQL-based repository and creates its tables when
// they are missing.
func New(ctx context.Context, config configs.MysqlConfig, logger *zap.Logger) (*Repository, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "mysql"),
	)
	cfg := mysql.NewConfig()
	cfg.User = config.User
	cfg.Passwd = config.Pass
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	cfg.DBName = config.Name
	cfg.ParseTime = true
	logger.Info("Connecting to MySQL", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBName))
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Repository{db: db, logger: logger}, nil
}

// Close closes the underlying connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create stores a new user.
func (r *Repository) Create(ctx context.Context, u *model.User) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Create")
	defer span.End()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if isDuplicate(err) {
		return repository.ErrAlreadyExists
	}
	return err
}

// Get retrieves a user by id.
func (r *Repository) Get(ctx context.Context, id string) (*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Get")
	defer span.End()
	return r.getOne(ctx, "id", id)
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetByUsername")
	defer span.End()
	return r.getOne(ctx, "username", username)
}

// GetMany retrieves the existing users among ids. Favorites are not loaded.
func (r *Repository) GetMany(ctx context.Context, ids []string) ([]*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMany")
	defer span.End()
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := "SELECT id, username, email, password, created_at, updated_at FROM users WHERE id IN (?" +
		strings.Repeat(", ?", len(ids)-1) + ") ORDER BY created_at, id"
	return r.query(ctx, query, args...)
}

// List returns all users in registration order. Favorites are not loaded.
func (r *Repository) List(ctx context.Context) ([]*model.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/List")
	defer span.End()
	return r.query(ctx, "SELECT id, username, email, password, created_at, updated_at FROM users ORDER BY created_at, id")
}

// UpdateUsername renames a user.
func (r *Repository) UpdateUsername(ctx context.Context, id, username string, at time.Time) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateUsername")
	defer span.End()
	err := r.updateUser(ctx, "UPDATE users SET username = ?, updated_at = ? WHERE id = ?", username, at, id)
	if isDuplicate(err) {
		return repository.ErrAlreadyExists
	}
	return err
}

// UpdatePassword replaces a user's password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdatePassword")
	defer span.End()
	return r.updateUser(ctx, "UPDATE users SET password = ?, updated_at = ? WHERE id = ?", hash, at, id)
}

// Delete removes a user and, by cascade, its favorites.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/Delete")
	defer span.End()
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddFavorite adds movieID to the user's favorites. INSERT IGNORE keeps a
// repeated add a no-op.
func (r *Repository) AddFavorite(ctx context.Context, userID, movieID string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/AddFavorite")
	defer span.End()
	if err := r.userExists(ctx, userID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO favorites (user_id, movie_id, added_at) VALUES (?, ?, ?)",
		userID, movieID, time.Now().UTC())
	return err
}

// RemoveFavorite removes movieID from the user's favorites.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, movieID string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/RemoveFavorite")
	defer span.End()
	res, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE user_id = ? AND movie_id = ?", userID, movieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := r.userExists(ctx, userID); err != nil {
		return err
	}
	return repository.ErrEntryNotFound
}

// RemoveFavoriteEverywhere removes movieID from every favorites set and
// returns the number of users changed.
func (r *Repository) RemoveFavoriteEverywhere(ctx context.Context, movieID string) (int64, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/RemoveFavoriteEverywhere")
	defer span.End()
	res, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE movie_id = ?", movieID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FavoriteMovieIDs returns the distinct movie ids referenced by any
// favorites set.
func (r *Repository) FavoriteMovieIDs(ctx context.Context) ([]string, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/FavoriteMovieIDs")
	defer span.End()
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT movie_id FROM favorites ORDER BY movie_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

func (r *Repository) getOne(ctx context.Context, column, value string) (*model.User, error) {
	u := &model.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password, created_at, updated_at FROM users WHERE "+column+" = ?", value)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.logger.Warn("Failed to get user", zap.String(column, value), zap.Error(err))
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, "SELECT movie_id FROM favorites WHERE user_id = ? ORDER BY added_at, movie_id", u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	u.Favorites = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		u.Favorites = append(u.Favorites, id)
	}
	return u, rows.Err()
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []*model.User{}
	for rows.Next() {
		u := &model.User{Favorites: []string{}}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *Repository) updateUser(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 affected rows when values are unchanged.
		return r.userExists(ctx, args[len(args)-1].(string))
	}
	return nil
}

func (r *Repository) userExists(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}
