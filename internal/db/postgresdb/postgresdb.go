// Package postgresdb keeps the users and ratings collections in PostgreSQL tables.
// Tables are bootstrapped with goose migrations on start.
package postgresdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/hotelratings/internal/db/storage"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const embeddedMigrationsDir = "migrations"

// ratingColumns whitelists the queryable rating fields.
var ratingColumns = map[string]string{
	storage.FieldUserID:  "user_id",
	storage.FieldHotelID: "hotel_id",
}

type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type initOptions struct {
	DBPreReset    bool
	MigrationsDir string
}

// InitOption configures New.
type InitOption func(*initOptions)

// WithDBPreReset drops every public table before migrating. Tests use it.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// WithMigrationsDir reads migrations from a directory on disk instead of the
// ones compiled into the binary.
func WithMigrationsDir(dir string) InitOption {
	return func(options *initOptions) {
		options.MigrationsDir = dir
	}
}

// New opens the database and applies pending migrations.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil, fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `result.resetDB()` calling: %w",
				err,
			)
		}
	}

	migrationsDir := options.MigrationsDir
	if migrationsDir == "" {
		goose.SetBaseFS(embeddedMigrations)
		defer goose.SetBaseFS(nil)
		migrationsDir = embeddedMigrationsDir
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
			err,
		)
	}

	if err := goose.UpContext(ctx, result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
			err,
		)
	}

	return result, nil
}

func (db *PostgresDB) SaveUser(ctx context.Context, usr models.User) (models.User, error) {
	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO users (id, name, email, about) VALUES ($1, $2, $3, $4)`,
		usr.UserID,
		usr.Name,
		usr.Email,
		usr.About,
	)
	if err != nil {
		return models.User{}, fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/SaveUser(): error while `ExecContext()` calling: %w",
			err,
		)
	}

	return usr, nil
}

func (db *PostgresDB) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, name, email, about FROM users WHERE id = $1`,
		userID,
	)

	var usr models.User
	err := row.Scan(&usr.UserID, &usr.Name, &usr.Email, &usr.About)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	return usr, true, nil
}

func (db *PostgresDB) FindAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.database.QueryContext(ctx, `SELECT id, name, email, about FROM users ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		var usr models.User
		if err := rows.Scan(&usr.UserID, &usr.Name, &usr.Email, &usr.About); err != nil {
			return nil, err
		}
		result = append(result, usr)
	}

	return result, rows.Err()
}

func (db *PostgresDB) SaveRating(ctx context.Context, rating models.Rating) (models.Rating, error) {
	row := db.database.QueryRowContext(
		ctx,
		`INSERT INTO ratings (user_id, hotel_id, rating, feedback) VALUES ($1, $2, $3, $4) RETURNING id`,
		rating.UserID,
		rating.HotelID,
		rating.Rating,
		rating.Feedback,
	)
	if err := row.Scan(&rating.RatingID); err != nil {
		return models.Rating{}, fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/SaveRating(): error while `row.Scan()` calling: %w",
			err,
		)
	}

	return rating, nil
}

func (db *PostgresDB) FindAllRatings(ctx context.Context) ([]models.Rating, error) {
	return scanRatings(
		ctx,
		db.database,
		`SELECT id, user_id, hotel_id, rating, feedback FROM ratings ORDER BY seq`,
	)
}

func (db *PostgresDB) FindRatingsByField(ctx context.Context, field, value string) ([]models.Rating, error) {
	column, ok := ratingColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported rating field %q", field)
	}

	return scanRatings(
		ctx,
		db.database,
		fmt.Sprintf(`SELECT id, user_id, hotel_id, rating, feedback FROM ratings WHERE %s = $1 ORDER BY seq`, column),
		value,
	)
}

func scanRatings(ctx context.Context, database queryer, query string, args ...interface{}) ([]models.Rating, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Rating{}
	for rows.Next() {
		var rating models.Rating
		err := rows.Scan(&rating.RatingID, &rating.UserID, &rating.HotelID, &rating.Rating, &rating.Feedback)
		if err != nil {
			return nil, err
		}
		result = append(result, rating)
	}

	return result, rows.Err()
}

func (db *PostgresDB) UpdateRating(ctx context.Context, rating models.Rating) (models.Rating, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			UPDATE ratings SET rating = $2, feedback = $3
				WHERE id = $1
				RETURNING id, user_id, hotel_id, rating, feedback
		`,
		rating.RatingID,
		rating.Rating,
		rating.Feedback,
	)

	var updated models.Rating
	err := row.Scan(&updated.RatingID, &updated.UserID, &updated.HotelID, &updated.Rating, &updated.Feedback)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Rating{}, false, nil
		}
		return models.Rating{}, false, err
	}

	return updated, true, nil
}

func (db *PostgresDB) DeleteRating(ctx context.Context, ratingID string) (bool, error) {
	res, err := db.database.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, ratingID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// Ping verifies connectivity within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}
