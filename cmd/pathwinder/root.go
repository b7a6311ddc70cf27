// Package main implements the pathwinder CLI: a thin front end over the
// core packages, mirroring gcsfuse's cobra/viper-based cmd/root.go
// structure (config file + flags, then one subcommand per operation).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelgr/pathwinder/internal/logger"
)

var (
	ruleFilePath string
	logSeverity  string
)

var rootCmd = &cobra.Command{
	Use:   "pathwinder",
	Short: "Inspect and simulate Pathwinder filesystem redirection rules",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Config{Severity: logSeverity, Format: "text"})
		initMetrics()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ruleFilePath, "rules", "", "Path to a YAML rule file")
	rootCmd.PersistentFlags().StringVar(&logSeverity, "log-severity", "INFO", "Log severity: TRACE, DEBUG, INFO, WARNING, ERROR, OFF")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)")
	_ = viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	shutdownTracing := initTracing()
	defer shutdownTracing()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
