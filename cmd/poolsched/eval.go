package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valkolaci/poolsched/pkg/cloud"
	"github.com/valkolaci/poolsched/pkg/config"
	"github.com/valkolaci/poolsched/pkg/evaluator"
	"github.com/valkolaci/poolsched/pkg/resolver"
	"github.com/valkolaci/poolsched/pkg/types"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Resolve the desired size for one target",
	Long: `Resolve the desired size for one node pool target at a given instant
without touching the cloud provider.

Examples:
  # What applies to this pool right now?
  poolsched eval --compartment sandbox/devops --cluster dev --nodepool pool1

  # What would apply next Saturday morning?
  poolsched eval --compartment sandbox/devops --cluster dev --nodepool pool1 \
    --at "2026-09-05 09:00"`,
	RunE: runEval,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE:  runValidate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List node pools and their current decisions",
	RunE:  runList,
}

func init() {
	evalCmd.Flags().String("config", "", "Configuration file (default rules.yaml, or POOLSCHED_CONFIG)")
	evalCmd.Flags().String("compartment", "", "Compartment path (required)")
	evalCmd.Flags().String("cluster", "", "Cluster name (required)")
	evalCmd.Flags().String("nodepool", "", "Node pool name (required)")
	evalCmd.Flags().String("at", "", "Instant to evaluate (RFC3339 or \"2006-01-02 15:04\", default now)")
	_ = evalCmd.MarkFlagRequired("compartment")
	_ = evalCmd.MarkFlagRequired("cluster")
	_ = evalCmd.MarkFlagRequired("nodepool")

	validateCmd.Flags().String("config", "", "Configuration file (default rules.yaml, or POOLSCHED_CONFIG)")

	listCmd.Flags().String("config", "", "Configuration file (default rules.yaml, or POOLSCHED_CONFIG)")
	listCmd.Flags().String("auth", string(cloud.AuthConfigFile), "OCI auth mode (config-file or resource-principal)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
}

// atLayouts are the accepted formats for the --at flag
var atLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseAt(text string, loc *time.Location) (time.Time, error) {
	for _, layout := range atLayouts {
		if at, err := time.ParseInLocation(layout, text, loc); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a datetime", text)
}

func loadSnapshot(cmd *cobra.Command) (*config.Snapshot, error) {
	configFlag, _ := cmd.Flags().GetString("config")
	path := config.ConfigPath(configFlag)
	snap, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return snap, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	initLogging(cmd)

	snap, err := loadSnapshot(cmd)
	if err != nil {
		return err
	}

	target := types.Target{}
	target.Compartment, _ = cmd.Flags().GetString("compartment")
	target.Cluster, _ = cmd.Flags().GetString("cluster")
	target.NodePool, _ = cmd.Flags().GetString("nodepool")

	at := snap.Now()
	if atFlag, _ := cmd.Flags().GetString("at"); atFlag != "" {
		at, err = parseAt(atFlag, snap.Location)
		if err != nil {
			return err
		}
	}

	decision := resolver.Decide(snap, target, at)

	fmt.Printf("Target:   %s\n", target)
	fmt.Printf("At:       %s\n", at.In(snap.Location).Format(time.RFC3339))
	switch decision.Action {
	case types.ActionSetSize:
		fmt.Printf("Decision: set size to %d\n", decision.Size)
	default:
		fmt.Println("Decision: no action")
	}
	fmt.Printf("Reason:   %s\n", decision.Reason)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	initLogging(cmd)

	configFlag, _ := cmd.Flags().GetString("config")
	path := config.ConfigPath(configFlag)
	snap, err := config.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s is valid\n", path)
	fmt.Print(snap.Dump())
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	initLogging(cmd)

	snap, err := loadSnapshot(cmd)
	if err != nil {
		return err
	}

	authMode, _ := cmd.Flags().GetString("auth")
	provider, err := cloud.NewOCIProvider(cloud.AuthMode(authMode))
	if err != nil {
		return fmt.Errorf("failed to create cloud provider: %w", err)
	}

	pools, err := evaluator.ListNodePools(context.Background(), provider)
	if err != nil {
		return err
	}

	now := snap.Now()
	fmt.Printf("%-30s %-15s %-15s %5s  %s\n", "COMPARTMENT", "CLUSTER", "NODEPOOL", "SIZE", "DECISION")
	for _, pool := range pools {
		decision := resolver.Decide(snap, pool.Target(), now)
		what := decision.Reason
		if decision.Action == types.ActionSetSize {
			what = fmt.Sprintf("set size to %d (%s)", decision.Size, decision.Reason)
		}
		fmt.Printf("%-30s %-15s %-15s %5d  %s\n", pool.Compartment, pool.Cluster, pool.Name, pool.Size, what)
	}
	return nil
}
