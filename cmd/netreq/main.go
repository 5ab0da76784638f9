// Package main provides the netreq command-line tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdziat/netreq"
	"github.com/jdziat/netreq/pkg/config"
)

// Exit codes by outcome.
const (
	exitOK = iota
	exitUsage
	exitRequest
	exitNetworkUnavailable
	exitClientError
	exitBadResponse
	exitDecode
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if nerr, ok := netreq.AsError(err); ok && nerr.Kind == netreq.KindSerializedError {
			fmt.Fprintf(stderr, "%s\n", nerr.Data)
		}
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	nerr, ok := netreq.AsError(err)
	if !ok {
		return exitUsage
	}
	switch nerr.Kind {
	case netreq.KindNetworkUnavailable:
		return exitNetworkUnavailable
	case netreq.KindSerializedError:
		return exitClientError
	case netreq.KindResponseSerializationFailed:
		return exitDecode
	case netreq.KindRequest, netreq.KindParameterEncodingFailed:
		return exitRequest
	default:
		return exitBadResponse
	}
}

// globalFlags are shared by every request subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	debug      bool
	metrics    bool
	headers    []string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "netreq",
		Short:         "Send HTTP requests and classify their outcome",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log requests to stderr")
	pf.BoolVar(&flags.debug, "debug", false, "log request and response headers (implies --verbose)")
	pf.BoolVar(&flags.metrics, "metrics", false, "print request metrics to stderr when done")
	pf.StringArrayVarP(&flags.headers, "header", "H", nil, "request header as Key=Value (repeatable)")

	root.AddCommand(
		getSubcommand(flags),
		postSubcommand(flags),
		versionSubcommand(),
	)
	return root
}

func versionSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "netreq version %s\n", config.Version)
		},
	}
}
