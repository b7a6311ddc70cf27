package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jacobsa/timeutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samuelgr/pathwinder/config"
	"github.com/samuelgr/pathwinder/internal/decision"
	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/fsops/fake"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwtracing"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

var scriptFilePath string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted list of filesystem operations through the decision function",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ruleFilePath == "" || scriptFilePath == "" {
			return fmt.Errorf("simulate: --rules and --script are both required")
		}

		file, err := config.LoadFile(ruleFilePath)
		if err != nil {
			return err
		}

		facade := fake.New()
		for _, rc := range file.Rules {
			if p, ok := pathForDisplay(rc.OriginDirectory); ok {
				facade.AddDirectory(p)
			}
		}

		builder := rulestore.NewBuilder()
		if name, reason := file.BuildRules(builder); reason != rulestore.RejectNone {
			return fmt.Errorf("simulate: rule %q rejected: %s", name, reason)
		}
		store, violations := builder.Finalize(context.Background(), facade)
		if len(violations) > 0 {
			return fmt.Errorf("simulate: %d rule(s) failed finalization", len(violations))
		}

		ops, err := loadScript(scriptFilePath)
		if err != nil {
			return err
		}

		clock := timeutil.RealClock()
		for _, sop := range ops {
			p, ok := pwpath.New(sop.Path)
			if !ok {
				return fmt.Errorf("simulate: invalid path %q", sop.Path)
			}
			op, access, err := sop.parse()
			if err != nil {
				return err
			}
			spanCtx, span := pwtracing.StartDecide(context.Background(), sop.Path)
			inst := decision.Decide(spanCtx, store, facade, clock, p, op, access, nil)
			metricsCollectors.ObserveInstruction(inst.Kind)
			pwtracing.End(span, nil)
			fmt.Printf("%s %s -> kind=%s real=%s\n", sop.Operation, sop.Path, inst.Kind, inst.RealPath)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&scriptFilePath, "script", "", "Path to a YAML operation script")
}

// scriptedOperation is one line of a simulate script.
type scriptedOperation struct {
	Path      string `yaml:"path"`
	Operation string `yaml:"operation"`
	Access    string `yaml:"access"`
}

func (s scriptedOperation) parse() (decision.OperationKind, fsops.AccessMode, error) {
	var op decision.OperationKind
	switch s.Operation {
	case "Open":
		op = decision.Open
	case "Create":
		op = decision.Create
	case "Query":
		op = decision.Query
	case "Enumerate":
		op = decision.Enumerate
	default:
		return 0, 0, fmt.Errorf("simulate: unknown operation %q", s.Operation)
	}

	access := fsops.AccessReadOnly
	if s.Access == "ReadWrite" {
		access = fsops.AccessReadWrite
	}
	return op, access, nil
}

func loadScript(path string) ([]scriptedOperation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("simulate: reading script: %w", err)
	}
	var ops []scriptedOperation
	if err := yaml.Unmarshal(raw, &ops); err != nil {
		return nil, fmt.Errorf("simulate: parsing script: %w", err)
	}
	return ops, nil
}
