package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/logger"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=%s"

	accountsTable = "accounts"

	pgUniqueViolation = "23505"
)

type postgresConfig interface {
	Host() string
	Username() string
	Password() string
	Database() string
	SSLMode() string
}

// SQLStorage keeps one row per account in the accounts table.
// Passwords are stored as given, without hashing.
type SQLStorage struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func NewPostgresStorage(config postgresConfig) (*SQLStorage, error) {
	dsn := fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database(),
		config.SSLMode())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = migratePostgres(dsn); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Warn("account passwords are stored in plaintext", zap.String("backend", "postgres"))
	return &SQLStorage{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

func NewSQLiteStorage(path string) (*SQLStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create db directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "open sqlite database")
	}
	if err = migrateSQLite(path); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Warn("account passwords are stored in plaintext", zap.String("backend", "sqlite"))
	return &SQLStorage{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func (s *SQLStorage) FindByCredentials(ctx context.Context, username, password string) (Document, error) {
	query := s.builder.Select("username", "password", "account_obj").
		From(accountsTable).
		Where(sq.Eq{"username": username, "password": password})

	doc, err := s.scanDocument(ctx, query)
	return doc, errors.Wrap(err, "find account")
}

func (s *SQLStorage) Get(ctx context.Context, username string) (Document, error) {
	query := s.builder.Select("username", "password", "account_obj").
		From(accountsTable).
		Where(sq.Eq{"username": username})

	doc, err := s.scanDocument(ctx, query)
	return doc, errors.Wrap(err, "get account")
}

func (s *SQLStorage) scanDocument(ctx context.Context, query sq.SelectBuilder) (Document, error) {
	var doc Document
	var body string
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&doc.Username, &doc.Password, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	doc.Body = []byte(body)
	return doc, nil
}

func (s *SQLStorage) Insert(ctx context.Context, doc Document) error {
	query := s.builder.Insert(accountsTable).
		Columns("username", "password", "account_obj").
		Values(doc.Username, doc.Password, string(doc.Body))

	_, err := query.RunWith(s.db).ExecContext(ctx)
	if isUniqueViolation(err) {
		return errors.Wrap(ErrExists, "insert account")
	}
	return errors.Wrap(err, "insert account")
}

func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func (s *SQLStorage) UpdateBody(ctx context.Context, username string, body []byte) error {
	query := s.builder.Update(accountsTable).
		Set("account_obj", string(body)).
		Where(sq.Eq{"username": username})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "update account")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update account")
	}
	if affected == 0 {
		return errors.Wrap(ErrNotFound, "update account")
	}
	return nil
}

func (s *SQLStorage) Delete(ctx context.Context, username string) error {
	query := s.builder.Delete(accountsTable).
		Where(sq.Eq{"username": username})

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "delete account")
}
