package main

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/IDA-TUBS/TORO/toro"
	"github.com/IDA-TUBS/TORO/toroconfig"
)

//go:embed scenario_default.yaml
var defaultScenario []byte

var scenarioPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "torocli",
		Short: "Analyze maximum latency and robustness margins of a real-time cause-effect chain",
	}
	root.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", "",
		"path to a scenario YAML file (defaults to the built-in demo scenario)")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newVerifyCmd())
	return root
}

func loadScenario(logger *slog.Logger) (toroconfig.Scenario, error) {
	if scenarioPath == "" {
		logger.Info("loading built-in demo scenario")
		return toroconfig.Parse(defaultScenario)
	}
	logger.Info("loading scenario", "path", scenarioPath)
	return toroconfig.Load(scenarioPath)
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Compute end-to-end latency and per-task robustness margins for a chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New().String()
			logger := slog.Default().With("run_id", runID, "command", "analyze")

			scenario, err := loadScenario(logger)
			if err != nil {
				return fmt.Errorf("loading scenario: %w", err)
			}
			tasks, params, err := scenario.Build()
			if err != nil {
				return fmt.Errorf("building task catalog: %w", err)
			}
			chain := scenario.ToChain()

			logger.Info("analyzing chain", "chain", chain.Name, "tasks", len(chain.TaskIDs))
			result, err := toro.AnalyzeChain(chain, tasks, params)
			if err != nil {
				logger.Error("analysis failed", "error", err)
				return err
			}

			printResult(cmd, chain.Name, result)
			return nil
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Analyze a chain, then confirm its margins are jointly safe under inflation",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New().String()
			logger := slog.Default().With("run_id", runID, "command", "verify")

			scenario, err := loadScenario(logger)
			if err != nil {
				return fmt.Errorf("loading scenario: %w", err)
			}
			tasks, params, err := scenario.Build()
			if err != nil {
				return fmt.Errorf("building task catalog: %w", err)
			}
			chain := scenario.ToChain()

			result, err := toro.AnalyzeChain(chain, tasks, params)
			if err != nil {
				logger.Error("analysis failed", "error", err)
				return err
			}
			printResult(cmd, chain.Name, result)

			ok, newLatency, err := toro.VerifyMargins(chain, tasks, params, result.PerTaskMargin, result.PerTaskDeltaLambda)
			if err != nil {
				logger.Error("verification failed", "error", err)
				return err
			}

			logger.Info("verification complete", "ok", ok, "new_latency", newLatency)
			fmt.Fprintf(cmd.OutOrStdout(), "\nverification: jointly-safe=%v new_latency=%d\n", ok, newLatency)
			if !ok {
				return fmt.Errorf("computed margins are not jointly safe")
			}
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, chainName string, result *toro.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "chain %q: end-to-end latency = %d\n", chainName, result.Latency)
	for taskID, m := range result.PerTaskMargin {
		fmt.Fprintf(out, "  margin(%s) = %d\n", taskID, m)
	}
	for taskID, dl := range result.PerTaskDeltaLambda {
		fmt.Fprintf(out, "  deltaLambda(%s) = %d\n", taskID, dl)
	}
}
