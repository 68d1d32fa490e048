package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/session"
)

// tokens is the command stream: one trimmed, non-blank line per token.
type tokens struct {
	items []string
	pos   int
}

func readTokens(r io.Reader) (*tokens, error) {
	t := &tokens{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			t.items = append(t.items, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading commands: %w", err)
	}
	return t, nil
}

func (t *tokens) next() (string, bool) {
	if t.pos >= len(t.items) {
		return "", false
	}
	tok := t.items[t.pos]
	t.pos++
	return tok, true
}

func (t *tokens) peek() (string, bool) {
	if t.pos >= len(t.items) {
		return "", false
	}
	return t.items[t.pos], true
}

func (t *tokens) remaining() int {
	return len(t.items) - t.pos
}

// take consumes n tokens, or fails with a truncation error naming the
// command when fewer remain. want is the full argument count reported.
func (t *tokens) take(k model.Kind, n, want int) ([]string, error) {
	if t.remaining() < n {
		got := want - n + t.remaining()
		t.pos = len(t.items)
		return nil, model.Truncated(string(k), want, got)
	}
	out := t.items[t.pos : t.pos+n]
	t.pos += n
	return out, nil
}

// arity is the number of arguments each command always consumes.
var arity = map[model.Kind]int{
	model.KindLogout:     0,
	model.KindWithdraw:   2,
	model.KindDeposit:    2,
	model.KindTransfer:   3,
	model.KindPayBill:    3,
	model.KindCreate:     2,
	model.KindDelete:     2,
	model.KindDisable:    2,
	model.KindChangePlan: 2,
}

// args consumes the arguments of command k. Arguments are taken before
// anything is authorized so a rejected command never misaligns the stream.
func (t *tokens) args(k model.Kind) ([]string, error) {
	switch k {
	case model.KindLogin:
		first, err := t.take(k, 1, 1)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(first[0], session.TypeStandard) {
			return first, nil
		}
		holder, err := t.take(k, 1, 2)
		if err != nil {
			return nil, err
		}
		return []string{first[0], holder[0]}, nil

	case model.KindChangePlan:
		out, err := t.take(k, 2, 2)
		if err != nil {
			return nil, err
		}
		if next, ok := t.peek(); ok {
			if _, isCommand := model.ParseKind(next); !isCommand {
				t.pos++
				out = append(out[:2:2], next)
			}
		}
		return out, nil
	}

	n, ok := arity[k]
	if !ok {
		return nil, fmt.Errorf("no arity for %q", k)
	}
	return t.take(k, n, n)
}
