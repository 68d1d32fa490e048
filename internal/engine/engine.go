// Package engine interprets a command stream against an account store. It
// owns the session, dispatches each command to its handler, writes the
// console transcript and hands completed records to a sink.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/teller/internal/accounts"
	"github.com/cleared-dev/teller/internal/console"
	"github.com/cleared-dev/teller/internal/metrics"
	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/session"
	"github.com/cleared-dev/teller/internal/txn"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_sink.go -package=mocks

// RecordSink receives completed records in the order they happen.
type RecordSink interface {
	Append(r model.Record) error
}

// State is everything a run mutates.
type State struct {
	Accounts *accounts.Store
	Session  *session.Session
}

// Options configures an Engine. Zero values give the default policy, a
// discarded console, no metrics and a disabled logger.
type Options struct {
	Policy  *txn.Policy
	Console io.Writer
	Metrics *metrics.Recorder
	Logger  *zerolog.Logger
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Commands  int
	Records   int
	Rejected  int
	Truncated bool
}

// Engine runs one command stream.
type Engine struct {
	state   State
	env     *txn.Env
	sink    RecordSink
	console *console.Console
	metrics *metrics.Recorder
	log     zerolog.Logger
}

// New creates an Engine over store. Records go to sink.
func New(store *accounts.Store, sink RecordSink, opts Options) *Engine {
	policy := txn.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	out := opts.Console
	if out == nil {
		out = io.Discard
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	state := State{Accounts: store, Session: session.New()}
	return &Engine{
		state:   state,
		env:     &txn.Env{Accounts: store, Session: state.Session, Policy: policy},
		sink:    sink,
		console: console.New(out),
		metrics: opts.Metrics,
		log:     log,
	}
}

// State returns the run state.
func (e *Engine) State() State {
	return e.state
}

// Run reads the whole command stream from r and executes it. Rejected
// commands are reported on the console and do not stop the run. A truncated
// stream ends the run early and still returns a nil error. Errors are
// returned only for I/O failures and records that cannot be encoded.
func (e *Engine) Run(ctx context.Context, r io.Reader) (Summary, error) {
	sum := Summary{RunID: ulid.Make().String()}
	log := e.log.With().Str("run_id", sum.RunID).Logger()

	toks, err := readTokens(r)
	if err != nil {
		return sum, err
	}
	log.Info().Int("tokens", toks.remaining()).Int("accounts", e.state.Accounts.Len()).Msg("run started")

	for toks.remaining() > 0 {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		tok, _ := toks.next()
		kind, ok := model.ParseKind(tok)
		if !ok {
			e.console.Errorf("Unknown command %q.", tok)
			log.Debug().Str("token", tok).Msg("unknown command skipped")
			continue
		}
		sum.Commands++

		args, err := toks.args(kind)
		if err != nil {
			log.Warn().Str("kind", string(kind)).Err(err).Msg("command stream truncated")
			if err := e.truncate(err); err != nil {
				return sum, err
			}
			sum.Records++
			sum.Truncated = true
			break
		}

		res, err := e.exec(kind, args, log)
		if err != nil {
			return sum, err
		}
		switch res {
		case recorded:
			sum.Records++
		case rejected:
			sum.Rejected++
		}
	}

	if e.state.Session.Active() {
		log.Warn().Str("session", e.state.Session.String()).Msg("command stream ended with an open session")
	}
	if err := e.console.Err(); err != nil {
		return sum, err
	}
	log.Info().
		Int("commands", sum.Commands).
		Int("records", sum.Records).
		Int("rejected", sum.Rejected).
		Bool("truncated", sum.Truncated).
		Int("console_lines", e.console.Lines()).
		Msg("run finished")
	return sum, nil
}

type result int

const (
	accepted result = iota // ran, wrote no record
	recorded
	rejected
)

// exec runs one command.
func (e *Engine) exec(kind model.Kind, args []string, log zerolog.Logger) (result, error) {
	switch kind {
	case model.KindLogin:
		return e.login(args), nil
	case model.KindLogout:
		return e.logout()
	}

	if e.state.Session.Authorize(kind) == nil {
		e.echo(kind, args)
	}

	snap := e.state.Accounts.Snapshot()
	out, err := txn.Run(e.env, kind, args)
	if err == nil {
		// A record that cannot be written takes the mutation back with it.
		if err = e.sink.Append(out.Record); err != nil {
			e.state.Accounts.Restore(snap)
		}
	}
	if err != nil {
		if model.KindOf(err) == 0 {
			return rejected, fmt.Errorf("%s: %w", kind, err)
		}
		e.metrics.Transaction(kind, err)
		e.console.Error(err)
		log.Debug().Str("kind", string(kind)).Str("outcome", model.KindOf(err).String()).Err(err).Msg("rejected")
		return rejected, nil
	}
	e.metrics.Transaction(kind, nil)
	e.console.Println(out.Message)
	log.Debug().
		Str("kind", string(kind)).
		Str("account", out.Record.Account).
		Str("amount", out.Record.Amount.StringFixed(2)).
		Msg("applied")
	return recorded, nil
}

// prompts names each argument of a transaction as it is echoed.
var prompts = map[model.Kind][]string{
	model.KindWithdraw:   {"account number", "Withdrawal amount"},
	model.KindDeposit:    {"account number", "Deposit amount"},
	model.KindTransfer:   {"sender account number", "target account number", "Transfer amount"},
	model.KindPayBill:    {"account number", "company code", "Bill amount"},
	model.KindCreate:     {"account holder name", "initial balance"},
	model.KindDelete:     {"account holder name", "account number"},
	model.KindDisable:    {"account holder name", "account number"},
	model.KindChangePlan: {"account holder name", "account number", "new plan"},
}

func (e *Engine) echo(kind model.Kind, args []string) {
	for i, prompt := range prompts[kind] {
		if i >= len(args) {
			return
		}
		e.console.Echo(prompt, args[i])
	}
}

func (e *Engine) login(args []string) result {
	sessionType, holder := args[0], ""
	if len(args) > 1 {
		holder = args[1]
	}

	if e.state.Session.Active() {
		err := e.state.Session.Login(sessionType, holder, e.state.Accounts)
		e.metrics.Transaction(model.KindLogin, err)
		e.console.Error(err)
		return rejected
	}

	e.console.Println(console.Welcome)
	e.console.Echo("session type", sessionType)
	if holder != "" {
		e.console.Echo("account holder name", holder)
	}
	err := e.state.Session.Login(sessionType, holder, e.state.Accounts)
	e.metrics.Transaction(model.KindLogin, err)
	if err != nil {
		e.console.Error(err)
		return rejected
	}
	e.metrics.Session(e.state.Session.Privilege().String())
	if acting := e.state.Session.Acting(); acting != "" {
		e.console.Printf("Logged in as %s for account %s.", e.state.Session.Privilege(), acting)
	} else {
		e.console.Printf("Logged in as %s.", e.state.Session.Privilege())
	}
	return accepted
}

func (e *Engine) logout() (result, error) {
	err := e.state.Session.Logout()
	e.metrics.Transaction(model.KindLogout, err)
	if err != nil {
		e.console.Error(err)
		return rejected, nil
	}
	if err := e.sink.Append(model.Sentinel()); err != nil {
		return rejected, fmt.Errorf("recording logout: %w", err)
	}
	e.console.Println(console.Terminated)
	return recorded, nil
}

// truncate ends the run after the stream ran out mid-command.
func (e *Engine) truncate(cause error) error {
	e.metrics.Truncated()
	e.console.Error(cause)
	e.console.Println(console.Terminated)
	if e.state.Session.Active() {
		_ = e.state.Session.Logout()
	}
	if err := e.sink.Append(model.Sentinel()); err != nil {
		return fmt.Errorf("recording truncation: %w", err)
	}
	return nil
}
