package stageexec

import (
	"fmt"
	"io"
	"strings"

	"termview/internal/plan"
)

// DryRun prints every stage of the plan, labeled by role, without executing
// anything. The output is diagnostic text, not a promise that execution
// would succeed.
func DryRun(p *plan.Plan, w io.Writer) error {
	if err := validate(p); err != nil {
		return err
	}
	for _, stage := range p.Stages {
		if _, err := fmt.Fprintf(w, "%s: %s\n", stage.Role, strings.Join(stage.Argv, " ")); err != nil {
			return err
		}
	}
	if p.Audio != nil {
		if _, err := fmt.Fprintf(w, "%s: %s\n", p.Audio.Role, strings.Join(p.Audio.Argv, " ")); err != nil {
			return err
		}
	}
	return nil
}
