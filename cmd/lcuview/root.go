package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qlcu/circuit"
	"qlcu/config"
	"qlcu/lcu"
	"qlcu/qasm"
)

// app holds the state shared by every subcommand.
type app struct {
	logger      *zap.Logger
	logLevel    string
	dev         bool
	metricsAddr string
	qubitise    bool
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "lcuview",
		Short: "Build and inspect LCU block-encoding circuits",
		Long: `lcuview synthesizes the LCU circuit of an operator file.

An operator file is YAML naming either an Ising chain or a list of weighted
Pauli strings. Files ending in .qasm are read as circuits instead.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.dev, "dev", false, "use the development logger")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	root.PersistentFlags().BoolVar(&a.qubitise, "qubitise", false, "append the reflection on the index register")

	root.AddCommand(a.qasmCmd(), a.statsCmd(), a.checkCmd(), a.showCmd())
	return root
}

func (a *app) setup() error {
	level, err := zapcore.ParseLevel(a.logLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	cfg := zap.NewProductionConfig()
	if a.dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	a.logger = logger

	if a.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(a.metricsAddr, mux); err != nil {
				a.logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		a.logger.Info("serving metrics", zap.String("addr", a.metricsAddr))
	}
	return nil
}

// source is what a command works on: a synthesized LCU, or a circuit read
// from QASM.
type source struct {
	name string
	frag circuit.Fragment
	lcu  *lcu.LCU // nil for QASM input
}

func (s *source) postselect() map[circuit.Qubit]int {
	if ps, ok := s.frag.(circuit.Postselector); ok {
		return ps.Postselect()
	}
	return nil
}

func (a *app) load(path string) (*source, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if strings.EqualFold(filepath.Ext(path), ".qasm") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read qasm")
		}
		c, err := qasm.Parse(string(data))
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
		if c.Name != "qasm" {
			name = c.Name
		}
		return &source{name: name, frag: c}, nil
	}

	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if f.Name != "" {
		name = f.Name
	}
	sum, err := f.Sum()
	if err != nil {
		return nil, errors.Wrapf(err, "operator in %s", path)
	}
	opts, err := f.Options()
	if err != nil {
		return nil, err
	}
	l, err := lcu.New(sum, append(opts, lcu.WithLogger(a.logger))...)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s", name)
	}
	l.Name = name

	src := &source{name: name, frag: l.Circuit, lcu: l}
	if a.qubitise {
		w, err := lcu.NewQubitise(l)
		if err != nil {
			return nil, err
		}
		w.Name = name + "-w"
		src.frag = w
	}
	return src, nil
}
