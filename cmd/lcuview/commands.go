package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qlcu/circuit"
	"qlcu/internal/dag"
	"qlcu/internal/statevec"
	"qlcu/qasm"
)

// maxCheckQubits bounds the dense unitary built by check.
const maxCheckQubits = 12

var (
	ErrNotLCU        = errors.New("lcuview: input is a circuit, not an operator file")
	ErrTooLarge      = errors.New("lcuview: circuit too large to simulate")
	ErrBlockMismatch = errors.New("lcuview: block encoding does not match H/λ")
)

func (a *app) qasmCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "qasm FILE",
		Short: "Print the circuit as OpenQASM 3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			text := qasm.Write(src.frag)
			if out == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), text)
				return err
			}
			if err := os.WriteFile(out, []byte(text), 0644); err != nil {
				return errors.Wrap(err, "write qasm")
			}
			a.logger.Info("wrote qasm", zap.String("path", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Print qubit, gate and depth counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), src)
			return nil
		},
	}
}

func writeStats(w io.Writer, src *source) {
	f := src.frag
	fmt.Fprintf(w, "name     %s\n", src.name)
	fmt.Fprintf(w, "qubits   %d", f.NumQubits())
	for i, r := range f.Registers() {
		sep := ", "
		if i == 0 {
			sep = " ("
		}
		fmt.Fprintf(w, "%s%s: %d", sep, r.Name, r.Size)
	}
	fmt.Fprintln(w, ")")
	gates := f.Gates()
	fmt.Fprintf(w, "gates    %d\n", len(gates))
	fmt.Fprintf(w, "depth    %d\n", dag.FromFragment(f).Depth())
	if src.lcu != nil {
		fmt.Fprintf(w, "terms    %d\n", src.lcu.Sum().Len())
		fmt.Fprintf(w, "lambda   %s\n", strconv.FormatFloat(src.lcu.Lambda(), 'g', 12, 64))
	}

	counts := make(map[string]int)
	for _, g := range gates {
		counts[circuit.KindLabel(g)]++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	slices.Sort(labels)

	t := table.New().Headers("GATE", "COUNT")
	for _, l := range labels {
		t.Row(l, strconv.Itoa(counts[l]))
	}
	fmt.Fprintln(w, t.Render())
}

func (a *app) checkCmd() *cobra.Command {
	var tol float64
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Simulate the circuit and compare its block with H/λ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			dist, err := checkBlock(src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "max deviation %.3g (tolerance %.3g)\n", dist, tol)
			if dist > tol {
				return errors.Wrapf(ErrBlockMismatch, "deviation %.3g", dist)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().Float64Var(&tol, "tol", 1e-8, "largest accepted entry-wise deviation")
	return cmd
}

// checkBlock returns the largest entry-wise distance between the
// postselected block of the source and H/λ.
func checkBlock(src *source) (float64, error) {
	if src.lcu == nil {
		return 0, ErrNotLCU
	}
	if n := src.frag.NumQubits(); n > maxCheckQubits {
		return 0, errors.Wrapf(ErrTooLarge, "%d qubits, at most %d", n, maxCheckQubits)
	}
	u, err := statevec.Unitary(src.frag)
	if err != nil {
		return 0, err
	}
	block, err := statevec.Block(src.frag, u, src.postselect())
	if err != nil {
		return 0, err
	}
	want := src.lcu.Sum().Matrix()
	scale := complex(1/src.lcu.Lambda(), 0)
	for r := range want {
		for c := range want[r] {
			want[r][c] *= scale
		}
	}
	if len(want) != len(block) {
		return 0, errors.Wrapf(statevec.ErrDimension, "block %d, operator %d", len(block), len(want))
	}
	return statevec.MaxDistance(block, want), nil
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Open the circuit viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(newModel(src), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
