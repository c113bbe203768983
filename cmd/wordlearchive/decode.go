package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"wordlearchive/internal/codec"
)

var (
	decodeVariant  string
	decodeResult   string
	decodeSolution string
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a shared result block and check it against its solution",
	Long: `Decode runs the same checks as the submission page without touching
the database. Use "-" to read the result text from stdin.`,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&decodeVariant, "variant", string(codec.Standard), "puzzle family: standard, geo, audio, globle, globlec, wordle32")
	decodeCmd.Flags().StringVar(&decodeResult, "result", "-", "file with the shared result text")
	decodeCmd.Flags().StringVar(&decodeSolution, "solution", "", "file with the guessed words, one per line")
	_ = decodeCmd.MarkFlagRequired("solution")
}

// decodeReport decode 命令输出
type decodeReport struct {
	Variant codec.Variant `json:"variant"`
	Record  codec.Record  `json:"record"`
	Outcome codec.Outcome `json:"outcome"`
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func runDecode(cmd *cobra.Command, args []string) error {
	if decodeResult == "-" && decodeSolution == "-" {
		return errors.New("result and solution cannot both be read from stdin")
	}
	result, err := readInput(decodeResult, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read result: %w", err)
	}
	solution, err := readInput(decodeSolution, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read solution: %w", err)
	}

	v := codec.ParseVariant(decodeVariant)
	rec, outcome, err := codec.New(logger).Decode(codec.Submission{Result: result, Solution: solution}, v)
	if err != nil {
		var rej *codec.Rejection
		if errors.As(err, &rej) {
			return fmt.Errorf("rejected (%s): %w", rej.Kind, err)
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(decodeReport{Variant: v, Record: rec, Outcome: outcome})
}
