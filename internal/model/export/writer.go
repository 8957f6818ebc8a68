package export

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/logger"
)

const filePrefix = "data"

type snapshotter interface {
	Snapshot(ctx context.Context, username, password string) ([]byte, error)
}

type config interface {
	ExportDir() string
}

// Writer dumps a fresh copy of an account to <dir>/data<username>.json.
type Writer struct {
	ledger snapshotter
	dir    string
}

func NewWriter(config config, ledger snapshotter) *Writer {
	return &Writer{
		ledger: ledger,
		dir:    config.ExportDir(),
	}
}

// Path escapes username so the file always lands directly inside the export directory.
func (w *Writer) Path(username string) string {
	return filepath.Join(w.dir, filePrefix+url.PathEscape(username)+".json")
}

func (w *Writer) Export(ctx context.Context, username, password string) (string, error) {
	body, err := w.ledger.Snapshot(ctx, username, password)
	if err != nil {
		return "", errors.Wrap(err, "export")
	}

	if err = os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create export directory")
	}

	path := w.Path(username)
	if err = os.WriteFile(path, append(body, '\n'), 0o600); err != nil {
		return "", errors.Wrap(err, "write export file")
	}

	logger.Info("account exported", zap.String("username", username), zap.String("path", path))
	return path, nil
}
