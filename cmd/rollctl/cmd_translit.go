package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/manor5/electraSIR/internal/transliterate"
	"github.com/spf13/cobra"
)

// translitCmd drives a transliteration field from standard input
var translitCmd = &cobra.Command{
	Use:   "translit",
	Short: "Transliterate lines of Latin text to Tamil",
	Long: `Read Latin text line by line and print the Tamil rendering.

Each line replaces the previous draft, so a rendering is only printed for the
latest line once its response arrives. Responses to superseded lines are
dropped. The final value is printed at end of input.`,
	RunE: runTranslit,
}

func runTranslit(cmd *cobra.Command, args []string) error {
	client := transliterate.NewClient(cfg.Transliteration.URL, cfg.Transliteration.Timeout, cfg.Transliteration.RequestsPerSecond)
	return translitLoop(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
}

func translitLoop(ctx context.Context, tr transliterate.Transliterator, in io.Reader, out io.Writer) error {
	field := transliterate.NewField(tr)
	defer field.Close()

	var mu sync.Mutex
	field.OnChange(func(latin, native string) {
		if native == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "%s => %s\n", latin, native)
	})

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		field.SetLatin(ctx, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	field.Wait()
	if err := field.Err(); err != nil && log != nil {
		log.Warn("Last transliteration failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	fmt.Fprintf(out, "final: %s\n", field.Native())
	return nil
}
