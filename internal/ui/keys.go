package ui

import (
	"context"
	"io"

	"idlerpg/internal/command"
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

var keymap = map[byte]command.Token{
	'd':      command.Of(command.KindBuyDamage),
	'D':      command.Of(command.KindBuyDamageIncrease),
	'a':      command.Of(command.KindBuyAttackRate),
	'A':      command.Of(command.KindBuyAttackRateIncrease),
	'r':      command.Of(command.KindStartRebirth),
	'e':      command.Of(command.KindStartEvolve),
	'p':      command.Of(command.KindOpenPerks),
	's':      command.Of(command.KindSoftReset),
	'n':      command.Of(command.KindNewGame),
	'w':      command.Of(command.KindSave),
	'y':      command.Of(command.KindConfirm),
	'Y':      command.Of(command.KindConfirm),
	'\r':     command.Of(command.KindConfirm),
	'\n':     command.Of(command.KindConfirm),
	'x':      command.Of(command.KindCancel),
	'q':      command.Of(command.KindQuit),
	keyCtrlC: command.Of(command.KindQuit),
}

// Decode maps one read from a raw terminal to tokens. Terminals deliver an
// escape sequence in a single read, so an ESC followed by '[' or 'O' starts a
// sequence that is skipped up to its final byte; any other ESC is Cancel.
// Unbound bytes are dropped.
func Decode(buf []byte) []command.Token {
	var out []command.Token
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == keyEscape {
			if i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				i = skipSequence(buf, i+2)
				continue
			}
			out = append(out, command.Of(command.KindCancel))
			continue
		}
		if b >= '1' && b <= '9' {
			out = append(out, command.Select(int(b-'0')))
			continue
		}
		if tok, ok := keymap[b]; ok {
			out = append(out, tok)
		}
	}
	return out
}

// skipSequence returns the index of the final byte of the sequence whose
// parameters start at i.
func skipSequence(buf []byte, i int) int {
	for ; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return i
		}
	}
	return len(buf) - 1
}

// ReadTokens decodes r into out until r fails or ctx ends, then closes out.
func ReadTokens(ctx context.Context, r io.Reader, out chan<- command.Token) error {
	defer close(out)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, tok := range Decode(buf[:n]) {
			select {
			case out <- tok:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
