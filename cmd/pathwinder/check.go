package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samuelgr/pathwinder/config"
	"github.com/samuelgr/pathwinder/internal/fsops/fake"
	"github.com/samuelgr/pathwinder/internal/logger"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

func pathForDisplay(raw string) (pwpath.Path, bool) {
	return pwpath.New(raw)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate and finalize a rule file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ruleFilePath == "" {
			return fmt.Errorf("check: --rules is required")
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
			return fmt.Errorf("check: rule %q rejected: %s", name, reason)
		}

		_, violations := builder.Finalize(context.Background(), facade)
		if len(violations) > 0 {
			for _, v := range violations {
				logger.Errorf("rule %q: %s", v.RuleName, v.Message)
			}
			return fmt.Errorf("check: %d rule(s) failed finalization", len(violations))
		}

		fmt.Printf("ok: %d rule(s) valid\n", len(file.Rules))
		return nil
	},
}
