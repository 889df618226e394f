package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"

	"github.com/spf13/cobra"
)

// RandCommandHandler handles the random number commands
type RandCommandHandler struct {
	session *Session
}

// NewRandCommandHandler creates a RandCommandHandler on session
func NewRandCommandHandler(session *Session) *RandCommandHandler {
	return &RandCommandHandler{session: session}
}

// RandomCmd prints random bytes as hex, or writes them raw to --output-file
func (commandHandler *RandCommandHandler) RandomCmd(cmd *cobra.Command, args []string) {
	length, err := strconv.Atoi(args[0])
	if err != nil {
		logErr(commandHandler.session, "invalid length ", err)
		return
	}
	strong, err := cmd.Flags().GetBool("strong")
	if err != nil {
		logErr(commandHandler.session, "invalid strong flag ", err)
		return
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		logErr(commandHandler.session, "invalid output-file flag ", err)
		return
	}
	if !commandHandler.session.openOrLog(cmd) {
		return
	}

	mode := provider.RandPseudo
	if strong {
		mode = provider.RandStrong
	}

	s := commandHandler.session
	out, err := s.provider.Random.Bytes(s.Context(cmd), length, mode)
	if err != nil {
		s.reportErrors(err)
		return
	}

	if outputFilePath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
		return
	}
	if err := os.WriteFile(filepath.Clean(outputFilePath), out, 0600); err != nil {
		s.logger.Error(err)
		return
	}
	s.logger.Info("Random bytes saved to ", outputFilePath)
}

// RandStatusCmd prints whether the pool is seeded
func (commandHandler *RandCommandHandler) RandStatusCmd(cmd *cobra.Command, _ []string) {
	if !commandHandler.session.openOrLog(cmd) {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), commandHandler.session.provider.Random.Status())
}

// RandLoadCmd mixes a seed file or daemon socket into the pool and prints the resulting status
func (commandHandler *RandCommandHandler) RandLoadCmd(cmd *cobra.Command, args []string) {
	if !commandHandler.session.openOrLog(cmd) {
		return
	}

	s := commandHandler.session
	ok, err := s.provider.Random.LoadFile(s.Context(cmd), optionalArg(args))
	if err != nil {
		s.reportErrors(err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
}

// RandWriteCmd writes a seed file for the next process
func (commandHandler *RandCommandHandler) RandWriteCmd(cmd *cobra.Command, args []string) {
	if !commandHandler.session.openOrLog(cmd) {
		return
	}

	s := commandHandler.session
	if err := s.provider.Random.WriteFile(s.Context(cmd), optionalArg(args)); err != nil {
		s.reportErrors(err)
		return
	}
	s.logger.Info("Seed file written")
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// InitRandCommands registers random-number commands
func InitRandCommands(rootCmd *cobra.Command, session *Session) error {
	handler := NewRandCommandHandler(session)

	var randomCmd = &cobra.Command{
		Use:   "random <length>",
		Short: "Generate random bytes",
		Args:  cobra.ExactArgs(1),
		Run:   handler.RandomCmd,
	}
	randomCmd.Flags().BoolP("strong", "s", false, "Use the cryptographically strong generator")
	randomCmd.Flags().StringP("output-file", "", "", "Write raw bytes to this file instead of printing hex")
	rootCmd.AddCommand(randomCmd)

	var randStatusCmd = &cobra.Command{
		Use:   "rand-status",
		Short: "Report whether the random pool is seeded",
		Args:  cobra.NoArgs,
		Run:   handler.RandStatusCmd,
	}
	rootCmd.AddCommand(randStatusCmd)

	var randLoadCmd = &cobra.Command{
		Use:   "rand-load [path]",
		Short: "Mix a seed file or EGD socket into the random pool",
		Args:  cobra.MaximumNArgs(1),
		Run:   handler.RandLoadCmd,
	}
	rootCmd.AddCommand(randLoadCmd)

	var randWriteCmd = &cobra.Command{
		Use:   "rand-write [path]",
		Short: "Write a seed file",
		Args:  cobra.MaximumNArgs(1),
		Run:   handler.RandWriteCmd,
	}
	rootCmd.AddCommand(randWriteCmd)

	return nil
}
