package storage

import "github.com/pkg/errors"

var (
	ErrNotFound = errors.New("account document not found")
	ErrExists   = errors.New("account document already exists")
)

// Document is one persisted account: the lookup credentials plus the encoded account.
type Document struct {
	Username string
	Password string
	Body     []byte
}
