package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/expense-ledger/internal/entity/account"
	"max.ks1230/expense-ledger/internal/entity/expense"
	"max.ks1230/expense-ledger/internal/model/filter"
	"max.ks1230/expense-ledger/internal/model/order"
	"max.ks1230/expense-ledger/internal/model/session"
)

const dateLayout = "2006-01-02"

type command func(ctx context.Context, fs *flag.FlagSet, args []string) error

func (a *app) run(ctx context.Context, name string, args []string) error {
	var (
		af         addFlags
		lf         listFlags
		rangeCode  int
		rangeFlags = func(fs *flag.FlagSet) {
			fs.IntVar(&rangeCode, "range", 0, "0: 3 months, 1: 6 months, 2: 12 months")
		}
	)
	commands := map[string]command{
		"register": a.register,
		"add":      a.loggedIn(af.register, func(ctx context.Context) error { return a.add(ctx, af) }),
		"list":     a.loggedIn(lf.register, func(ctx context.Context) error { return a.list(ctx, lf) }),
		"trend":    a.loggedIn(rangeFlags, func(ctx context.Context) error { return a.trend(ctx, rangeCode) }),
		"export":   a.export,
		"reset":    a.loggedIn(nil, a.reset),
		"delete":   a.loggedIn(nil, a.delete),
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return cmd(ctx, fs, args)
}

type credentials struct {
	username string
	password string
}

func credentialFlags(fs *flag.FlagSet) *credentials {
	c := &credentials{}
	fs.StringVar(&c.username, "user", "", "account username")
	fs.StringVar(&c.password, "password", "", "account password")
	return c
}

// loggedIn registers the command flags, logs in and hands the session to next
// through ctx.
func (a *app) loggedIn(setup func(fs *flag.FlagSet), next func(ctx context.Context) error) command {
	return func(ctx context.Context, fs *flag.FlagSet, args []string) error {
		creds := credentialFlags(fs)
		if setup != nil {
			setup(fs)
		}
		if err := fs.Parse(args); err != nil {
			return err
		}
		acc, err := a.ledger.Login(ctx, creds.username, creds.password)
		if err != nil {
			return err
		}
		return next(session.WithSession(ctx, session.New(acc)))
	}
}

func current(ctx context.Context) (*session.Session, error) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return nil, errors.New("not logged in")
	}
	return s, nil
}

func (a *app) register(ctx context.Context, fs *flag.FlagSet, args []string) error {
	creds := credentialFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	acc, err := account.New(creds.username, creds.password)
	if err != nil {
		return err
	}
	if err = a.ledger.Register(ctx, acc); err != nil {
		return err
	}
	fmt.Println("registered", acc.Username())
	return nil
}

type addFlags struct {
	name     string
	amount   float64
	category string
	desc     string
	date     string
}

func (f *addFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "expense name, up to 10 characters")
	fs.Float64Var(&f.amount, "amount", 0, "expense amount")
	fs.StringVar(&f.category, "category", "FOOD", "FOOD, SHOPPING, PLEASURE or code 0-2")
	fs.StringVar(&f.desc, "desc", "", "description, up to 56 characters")
	fs.StringVar(&f.date, "date", "", "expense date as "+dateLayout+", today when empty")
}

type listFlags struct {
	category string
	order    int
}

func (f *listFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.category, "category", "ALL", "FOOD, SHOPPING, PLEASURE, ALL or code 0-3")
	fs.IntVar(&f.order, "order", int(order.DateDescending), "ordering code 0-5")
}

func (a *app) add(ctx context.Context, f addFlags) error {
	s, err := current(ctx)
	if err != nil {
		return err
	}
	category, err := parseCategory(f.category)
	if err != nil {
		return err
	}
	date := expense.DateOf(time.Now())
	if f.date != "" {
		t, err := time.Parse(dateLayout, f.date)
		if err != nil {
			return errors.Wrap(err, "date should be "+dateLayout)
		}
		date = expense.DateOf(t)
	}

	e, err := expense.New(f.name, date, category, f.amount, f.desc)
	if err != nil {
		return err
	}
	if err = a.ledger.AddExpense(ctx, s.Account, e); err != nil {
		return err
	}
	fmt.Println("added", e.Name())
	return nil
}

func (a *app) list(ctx context.Context, f listFlags) error {
	s, err := current(ctx)
	if err != nil {
		return err
	}
	expenses, err := a.ledger.ExpensesOf(ctx, s.Account)
	if err != nil {
		return err
	}

	category, err := parseCategory(f.category)
	if err != nil {
		return err
	}
	expenses, err = filter.ByCategory(expenses, category)
	if err != nil {
		return err
	}

	cmp, err := order.For(f.order)
	if err != nil {
		return err
	}
	for _, e := range order.Sort(expenses, cmp) {
		fmt.Printf("%-10s %10s %-8s %10.2f  %s\n", e.Name(), e.Date(), e.Category().Label(), e.Amount(), e.Description())
	}
	return nil
}

func (a *app) trend(ctx context.Context, rangeCode int) error {
	s, err := current(ctx)
	if err != nil {
		return err
	}
	if _, err = s.Range.Select(rangeCode); err != nil {
		return err
	}
	expenses, err := a.ledger.ExpensesOf(ctx, s.Account)
	if err != nil {
		return err
	}

	t, err := a.aggregator.ComputeTrend(expenses, s.Range.Current(), time.Now())
	if err != nil {
		return err
	}
	for _, p := range t.Points {
		fmt.Printf("%-4s %d  avg %10.2f  y %7.1f\n", p.Label, p.Year, p.Average, p.Y)
	}
	return nil
}

func (a *app) export(ctx context.Context, fs *flag.FlagSet, args []string) error {
	creds := credentialFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.exporter.Export(ctx, creds.username, creds.password)
	if err != nil {
		return err
	}
	fmt.Println("exported to", path)
	return nil
}

func (a *app) reset(ctx context.Context) error {
	s, err := current(ctx)
	if err != nil {
		return err
	}
	if err = a.ledger.ResetExpenses(ctx, s.Account); err != nil {
		return err
	}
	fmt.Println("expenses removed")
	return nil
}

func (a *app) delete(ctx context.Context) error {
	s, err := current(ctx)
	if err != nil {
		return err
	}
	if err = a.ledger.DeleteAccount(ctx, s.Account); err != nil {
		return err
	}
	fmt.Println("account deleted")
	return nil
}

// parseCategory accepts a selection code (0-3) or a category name.
func parseCategory(v string) (expense.Category, error) {
	if code, err := strconv.Atoi(v); err == nil {
		return expense.CategoryFromCode(code)
	}
	return expense.ParseCategory(strings.ToUpper(v))
}
