package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/statements-dev/statements/internal/assemble"
	"github.com/statements-dev/statements/internal/model"
)

// Parser is a statement parser implemented by an external program. The
// program is started fresh for each ToTransactions call and torn down
// afterwards, so plugins stay stateless between statements.
type Parser struct {
	name    string
	path    string
	options map[string]any
}

// NewParser creates a plugin parser for the program at path. Options, if
// any, are sent to the plugin in a configure request before parsing.
func NewParser(name, path string, options map[string]any) *Parser {
	return &Parser{name: name, path: path, options: options}
}

// Type returns the configured parser name.
func (p *Parser) Type() string { return p.name }

// ToTransactions runs the plugin against the statement text and collects
// every record it produces, emitted and returned alike.
func (p *Parser) ToTransactions(text string) ([]model.Transaction, error) {
	cmd := command(p.path)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("parser %s: stdin pipe: %w", p.name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("parser %s: stdout pipe: %w", p.name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("parser %s: starting %s: %w", p.name, p.path, err)
	}

	txns, runErr := runSession(stdin, stdout, p.options, text)
	waitErr := cmd.Wait()

	if runErr != nil {
		return nil, fmt.Errorf("parser %s: %w", p.name, runErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("parser %s: plugin exited: %w", p.name, waitErr)
	}
	return txns, nil
}

// command builds the exec.Cmd for a plugin program. Python scripts run
// under python3; anything else must be executable on its own.
func command(path string) *exec.Cmd {
	if strings.ToLower(filepath.Ext(path)) == ".py" {
		return exec.Command("python3", path)
	}
	return exec.Command(path)
}

// runSession drives one to_transactions exchange over a stdio pair.
func runSession(w io.WriteCloser, r io.Reader, options map[string]any, text string) ([]model.Transaction, error) {
	c := newConn(w, r)

	var txns []model.Transaction
	var emitErr error
	c.handle("emit_transaction", func(params json.RawMessage) (any, error) {
		txn, err := decodeRecord(params)
		if err != nil {
			if emitErr == nil {
				emitErr = err
			}
			return nil, err
		}
		txns = append(txns, txn)
		return true, nil
	})
	go c.readLoop()

	if len(options) > 0 {
		if _, err := c.call("configure", options); err != nil {
			w.Close()
			return nil, fmt.Errorf("configure: %w", err)
		}
	}

	result, err := c.call("to_transactions", map[string]any{"text": text})
	if err != nil {
		w.Close()
		return nil, err
	}

	_ = c.notify("shutdown")
	w.Close()

	if emitErr != nil {
		return nil, emitErr
	}

	rest, err := decodeRecords(result)
	if err != nil {
		return nil, err
	}
	return append(txns, rest...), nil
}

// decodeRecord converts a single record into a validated Transaction.
// Numbers decode as json.Number so amounts keep their exact digits.
func decodeRecord(raw json.RawMessage) (model.Transaction, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return model.Transaction{}, fmt.Errorf("decoding record: %w", err)
	}
	return assemble.DecodeRecord(rec)
}

// decodeRecords converts a to_transactions result into Transactions. A
// non-array result (count, null, true) means all records were emitted.
func decodeRecords(raw json.RawMessage) ([]model.Transaction, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}

	txns := make([]model.Transaction, 0, len(items))
	for i, item := range items {
		txn, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
