package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hlasmtools/hlasm-ls/analyzer"
	"github.com/hlasmtools/hlasm-ls/config"
	"github.com/hlasmtools/hlasm-ls/languageServer"
	"github.com/hlasmtools/hlasm-ls/library"
	"github.com/hlasmtools/hlasm-ls/util"
)

var (
	configPath string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "hlasm-ls",
		Short: "HLASM static analyzer and language server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			loaded = cfg
			if verbose {
				util.SetVerbose(true)
			} else if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
				util.Log.SetLevel(level)
			}
			languageServer.Libraries = &library.FileSystemProvider{SearchPaths: cfg.LibraryPaths}
			return nil
		},
	}

	loaded *config.Config
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze one source file and print its diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("could not read file %s: %w", args[0], err)
		}

		result := analyzer.Analyze(string(b), analyzer.Options{
			FileName:           args[0],
			Libraries:          &library.FileSystemProvider{SearchPaths: loaded.LibraryPaths},
			BranchCounterLimit: loaded.BranchCounterLimit,
		})

		for _, d := range result.Diagnostics {
			fmt.Printf("%s:%d:%d: %s %s: %s\n",
				args[0], d.Range.Start.Line+1, d.Range.Start.Char+1,
				severityName(int(d.Severity)), d.Code, d.Message)
		}
		if n := len(result.Diagnostics); n > 0 {
			return fmt.Errorf("%d findings", n)
		}
		return nil
	},
}

func severityName(s int) string {
	switch s {
	case 1:
		return "error"
	case 2:
		return "warning"
	default:
		return "info"
	}
}

var (
	tcpAddr string
	wsAddr  string

	languageServerCmd = &cobra.Command{
		Use:   "languageServer",
		Short: "Run the LSP server on stdio, TCP or websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case tcpAddr != "":
				return languageServer.ListenAndServeTCP(tcpAddr)
			case wsAddr != "":
				return languageServer.ListenAndServeWebSocket(wsAddr)
			default:
				languageServer.ListenAndServe()
				return nil
			}
		},
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "hlasm-ls.toml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	languageServerCmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on a TCP address instead of stdio")
	languageServerCmd.Flags().StringVar(&wsAddr, "ws", "", "listen on a websocket address instead of stdio")

	rootCmd.AddCommand(analyzeCmd, languageServerCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
