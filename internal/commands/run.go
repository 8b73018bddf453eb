package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/statements-dev/statements/internal/assemble"
	"github.com/statements-dev/statements/internal/config"
	"github.com/statements-dev/statements/internal/extract"
	"github.com/statements-dev/statements/internal/model"
	"github.com/statements-dev/statements/internal/output"
	"github.com/statements-dev/statements/internal/registry"
)

// runPipeline is the full parse mode: extract each statement, run the
// configured parsers, group by month, write the JSON files. Config and
// parser resolution failures abort before any statement is touched;
// per-statement failures are reported and the run continues.
func runPipeline(paths []string, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	parsers, err := registry.Resolve(cfg.Parsers)
	if err != nil {
		return err
	}

	acc := assemble.NewAccumulator()
	var failed []string
	for _, path := range paths {
		fmt.Printf("Processing %s\n", path)
		txns, err := processStatement(path, parsers, opts.extractOptions())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			failed = append(failed, path)
			continue
		}
		acc.AddAll(txns)
	}

	written, err := output.WriteBatches(opts.outputDir, acc.Batches())
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to process %d of %d statements: %s",
			len(failed), len(paths), strings.Join(failed, ", "))
	}
	return nil
}

// processStatement extracts text and tries each parser in config order.
// The first parser yielding at least one transaction wins; a statement no
// parser matches yields nothing.
func processStatement(path string, parsers []registry.Parser, eopts extract.Options) ([]model.Transaction, error) {
	text, err := statementText(path, eopts)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, p := range parsers {
		txns, err := p.ToTransactions(text)
		if err != nil {
			lastErr = err
			continue
		}
		if len(txns) == 0 {
			continue
		}
		for _, txn := range txns {
			if err := assemble.Validate(txn); err != nil {
				return nil, fmt.Errorf("parser %s: %w", p.Type(), err)
			}
		}
		return txns, nil
	}
	return nil, lastErr
}

// statementText returns the text of a statement. Plain .txt files are read
// verbatim so parsers can be developed against extracted text directly.
func statementText(path string, eopts extract.Options) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".txt" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	}
	return extract.Text(path, eopts)
}

// runTextMode extracts each statement's text to a sibling .txt file, for
// building parsers against real statement text. Failures are reported per
// file and the mode keeps going.
func runTextMode(paths []string, eopts extract.Options) error {
	var failed []string
	for _, path := range paths {
		fmt.Printf("Converting %s to text\n", path)
		text, err := extract.Text(path, eopts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			failed = append(failed, path)
			continue
		}
		out, err := extract.WriteSidecar(path, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			failed = append(failed, path)
			continue
		}
		fmt.Printf("Wrote %s\n", out)
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to convert %d of %d statements: %s",
			len(failed), len(paths), strings.Join(failed, ", "))
	}
	return nil
}
