package session

import (
	"context"

	"max.ks1230/expense-ledger/internal/entity/account"
	"max.ks1230/expense-ledger/internal/model/trend"
)

type ctxKey struct{}

// Session is the state a front end keeps for one logged-in user.
type Session struct {
	Account *account.Account
	Range   *trend.Selector
}

func New(acc *account.Account) *Session {
	return &Session{
		Account: acc,
		Range:   trend.NewSelector(),
	}
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
