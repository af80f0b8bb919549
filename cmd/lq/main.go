// Command lq drives queues from an interactive shell or from YAML
// scenario files.
//
//	lq shell --comparator numeric
//	lq run scenarios/*.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tychoish/lq/internal/console"
)

type flags struct {
	conf     console.Conf
	logLevel string
}

func (f *flags) resolve(cmd *cobra.Command) (console.Conf, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return console.Conf{}, fmt.Errorf("--log-level: %w", err)
	}

	conf := f.conf
	conf.Output = cmd.OutOrStdout()
	conf.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return conf, nil
}

func rootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "lq",
		Short:         "exercise circular queues of strings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.conf.Comparator, "comparator", "lexical", "value ordering: lexical or numeric")
	pf.IntVar(&f.conf.Capacity, "capacity", 0, "maximum number of nodes, including one per queue (0 is unbounded)")
	pf.Int64Var(&f.conf.Seed, "seed", 1, "seed for RAND values")
	pf.IntVar(&f.conf.BufferSize, "buffer-size", 1024, "size of the buffer removed values are copied into")
	pf.StringVar(&f.logLevel, "log-level", "warn", "debug, info, warn or error")

	root.AddCommand(shellCommand(f), runCommand(f))
	return root
}

func shellCommand(f *flags) *cobra.Command {
	var file string
	var strict bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "read commands from stdin or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			c, err := console.New(conf)
			if err != nil {
				return err
			}
			defer c.Close()

			var in io.Reader = cmd.InOrStdin()
			if file != "" {
				fh, err := os.Open(file)
				if err != nil {
					return err
				}
				defer fh.Close()
				in = fh
			}

			return c.Run(cmd.Context(), in, !strict)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read commands from this file instead of stdin")
	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first failing command")
	return cmd
}

func runCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "execute scenario files, reporting each result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			var errs []error
			for _, path := range args {
				err := runScenario(cmd.Context(), path, conf)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					conf.Logger.Error("scenario failed", "path", path, "err", err)
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", path)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			return errors.Join(errs...)
		},
	}
}

func runScenario(ctx context.Context, path string, conf console.Conf) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	// scenario output is noise next to the ok/FAIL summary
	conf.Output = io.Discard

	s, err := console.LoadScenario(fh, conf)
	if err != nil {
		return err
	}
	return s.Execute(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "lq:", err)
		cancel()
		os.Exit(1)
	}
}
