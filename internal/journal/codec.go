// Package journal encodes transaction records as fixed-width audit lines and
// appends them to the daily transaction log.
//
// Layout (offsets are byte positions):
//
//	[0:2]   transaction code
//	[3:24]  holder name, spaces as '_', right-padded with '_'
//	[25:30] account number
//	[31:39] amount, "00000.00"
//	[40:]   trailer, at least two characters, right-padded with '_'
//
// Positions 2, 24, 30 and 39 hold '_' separators.
package journal

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/teller/internal/id"
	"github.com/cleared-dev/teller/internal/model"
)

const (
	codeWidth    = 2
	holderWidth  = 21
	trailerWidth = 2
	minLine      = 40 + trailerWidth

	holderStart  = 3
	holderEnd    = holderStart + holderWidth
	numberStart  = holderEnd + 1
	numberEnd    = numberStart + id.Width
	amountStart  = numberEnd + 1
	amountEnd    = amountStart + model.AmountWidth
	trailerStart = amountEnd + 1

	pad = '_'
)

// CodeTable maps each record-producing kind to its two-digit code.
type CodeTable map[model.Kind]string

// DefaultCodeTable returns the standard transaction codes. Login writes no
// record and has no code.
func DefaultCodeTable() CodeTable {
	return CodeTable{
		model.KindLogout:     "00",
		model.KindWithdraw:   "01",
		model.KindTransfer:   "02",
		model.KindPayBill:    "03",
		model.KindDeposit:    "04",
		model.KindCreate:     "05",
		model.KindDelete:     "06",
		model.KindDisable:    "07",
		model.KindChangePlan: "08",
	}
}

// Codec converts records to and from audit lines.
type Codec struct {
	codes map[model.Kind]string
	kinds map[string]model.Kind
}

// NewCodec builds a Codec. Codes must be two digits and unique, and logout
// must have one since it marks the end of a session.
func NewCodec(table CodeTable) (*Codec, error) {
	c := &Codec{
		codes: make(map[model.Kind]string, len(table)),
		kinds: make(map[string]model.Kind, len(table)),
	}
	for _, k := range slices.Sorted(maps.Keys(table)) {
		code := table[k]
		if len(code) != codeWidth || !isDigits(code) {
			return nil, fmt.Errorf("code %q for %s: want %d digits", code, k, codeWidth)
		}
		if other, dup := c.kinds[code]; dup {
			return nil, fmt.Errorf("code %s used by both %s and %s", code, other, k)
		}
		c.codes[k] = code
		c.kinds[code] = k
	}
	if _, ok := c.codes[model.KindLogout]; !ok {
		return nil, fmt.Errorf("code table has no entry for %s", model.KindLogout)
	}
	return c, nil
}

// DefaultCodec returns a Codec over DefaultCodeTable.
func DefaultCodec() *Codec {
	c, err := NewCodec(DefaultCodeTable())
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the code for k.
func (c *Codec) Code(k model.Kind) (string, bool) {
	code, ok := c.codes[k]
	return code, ok
}

// Encode renders r as one audit line without a trailing newline.
func (c *Codec) Encode(r model.Record) (string, error) {
	code, ok := c.codes[r.Kind]
	if !ok {
		return "", fmt.Errorf("no code for %s records", r.Kind)
	}

	holder := strings.ReplaceAll(strings.TrimSpace(r.Holder), " ", string(pad))
	if len(holder) > holderWidth {
		return "", fmt.Errorf("holder %q longer than %d characters", r.Holder, holderWidth)
	}
	if !id.Valid(r.Account) {
		return "", fmt.Errorf("account number %q: want %d digits", r.Account, id.Width)
	}
	amount, err := model.FormatAmount(r.Amount)
	if err != nil {
		return "", fmt.Errorf("encoding %s record: %w", r.Kind, err)
	}
	if strings.ContainsAny(r.Trailer, " \n") {
		return "", fmt.Errorf("trailer %q contains whitespace", r.Trailer)
	}

	var b strings.Builder
	b.Grow(minLine + len(r.Trailer))
	b.WriteString(code)
	b.WriteByte(pad)
	b.WriteString(padRight(holder, holderWidth))
	b.WriteByte(pad)
	b.WriteString(r.Account)
	b.WriteByte(pad)
	b.WriteString(amount)
	b.WriteByte(pad)
	b.WriteString(padRight(r.Trailer, trailerWidth))
	return b.String(), nil
}

// Decode parses one audit line. The holder comes back with spaces and the
// trailer without padding.
func (c *Codec) Decode(line string) (model.Record, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < minLine {
		return model.Record{}, fmt.Errorf("record %q shorter than %d characters", line, minLine)
	}
	for _, at := range []int{codeWidth, holderEnd, numberEnd, amountEnd} {
		if line[at] != pad {
			return model.Record{}, fmt.Errorf("record %q: expected '_' at %d", line, at)
		}
	}

	kind, ok := c.kinds[line[:codeWidth]]
	if !ok {
		return model.Record{}, fmt.Errorf("unknown transaction code %q", line[:codeWidth])
	}
	number := line[numberStart:numberEnd]
	if !id.Valid(number) {
		return model.Record{}, fmt.Errorf("invalid account number %q", number)
	}
	amount, err := decimal.NewFromString(line[amountStart:amountEnd])
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing amount %q: %w", line[amountStart:amountEnd], err)
	}

	holder := strings.TrimRight(line[holderStart:holderEnd], string(pad))
	return model.Record{
		Kind:    kind,
		Holder:  strings.ReplaceAll(holder, string(pad), " "),
		Account: number,
		Amount:  amount,
		Trailer: strings.TrimRight(line[trailerStart:], string(pad)),
	}, nil
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(string(pad), width-len(s))
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
