package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	v1 "github.com/MGTheTrain/crypto-binding/internal/api/script/v1"

	"github.com/spf13/cobra"
	"go.starlark.net/starlark"
)

// ScriptCommandHandler runs Starlark scripts against the module
type ScriptCommandHandler struct {
	session *Session
}

// NewScriptCommandHandler creates a ScriptCommandHandler on session
func NewScriptCommandHandler(session *Session) *ScriptCommandHandler {
	return &ScriptCommandHandler{session: session}
}

// RunCmd executes a script file. print() output goes to stdout.
func (commandHandler *ScriptCommandHandler) RunCmd(cmd *cobra.Command, args []string) {
	if !commandHandler.session.openOrLog(cmd) {
		return
	}
	defer commandHandler.session.Close()

	s := commandHandler.session
	src, err := os.ReadFile(filepath.Clean(args[0]))
	if err != nil {
		s.logger.Error(err)
		return
	}

	out := cmd.OutOrStdout()
	thread := &starlark.Thread{
		Name:  filepath.Base(args[0]),
		Print: func(_ *starlark.Thread, msg string) { fmt.Fprintln(out, msg) },
	}
	v1.BindQueue(thread, s.provider.NewQueue())

	if _, err := v1.Exec(thread, s.module, args[0], src); err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			s.logger.Error(evalErr.Backtrace())
			return
		}
		s.logger.Error(err)
	}
}

// InitScriptCommands registers script-related commands
func InitScriptCommands(rootCmd *cobra.Command, session *Session) error {
	handler := NewScriptCommandHandler(session)

	var runCmd = &cobra.Command{
		Use:   "run <script.star>",
		Short: "Run a Starlark script with the openssl module predeclared",
		Args:  cobra.ExactArgs(1),
		Run:   handler.RunCmd,
	}
	rootCmd.AddCommand(runCmd)

	return nil
}
