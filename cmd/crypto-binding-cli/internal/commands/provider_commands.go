package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"

	"github.com/spf13/cobra"
)

// ProviderCommandHandler handles version, algorithm listing, hex and object commands
type ProviderCommandHandler struct {
	session *Session
}

// NewProviderCommandHandler creates a ProviderCommandHandler on session
func NewProviderCommandHandler(session *Session) *ProviderCommandHandler {
	return &ProviderCommandHandler{session: session}
}

// VersionCmd prints the binding, runtime and provider versions
func (commandHandler *ProviderCommandHandler) VersionCmd(cmd *cobra.Command, _ []string) {
	if !commandHandler.session.openOrLog(cmd) {
		return
	}
	v := app.Version(commandHandler.session.provider.Settings.BindingVersion)
	fmt.Fprintf(cmd.OutOrStdout(), "binding:  %s\nruntime:  %s\nprovider: %s\n", v.Binding, v.Runtime, v.Provider)
}

// ListCmd prints the sorted names of an algorithm category
func (commandHandler *ProviderCommandHandler) ListCmd(cmd *cobra.Command, args []string) {
	if !commandHandler.session.openOrLog(cmd) {
		return
	}
	category, err := provider.ParseCategory(args[0])
	if err != nil {
		commandHandler.session.logger.Error(err)
		return
	}
	names, err := commandHandler.session.provider.Algorithms.List(category)
	if err != nil {
		commandHandler.session.logger.Error(err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
}

// HexCmd encodes its argument to hex, or decodes it with --decode
func (commandHandler *ProviderCommandHandler) HexCmd(cmd *cobra.Command, args []string) {
	decode, err := cmd.Flags().GetBool("decode")
	if err != nil {
		logErr(commandHandler.session, "invalid decode flag ", err)
		return
	}
	if !commandHandler.session.openOrLog(cmd) {
		return
	}

	codec := commandHandler.session.provider.Hex
	if !decode {
		fmt.Fprintln(cmd.OutOrStdout(), codec.Encode([]byte(args[0])))
		return
	}
	out, err := codec.Decode(args[0])
	if err != nil {
		commandHandler.session.logger.Error(err)
		return
	}
	_, _ = cmd.OutOrStdout().Write(out)
}

// ObjectCmd looks an object up by NID, dotted OID or name
func (commandHandler *ProviderCommandHandler) ObjectCmd(cmd *cobra.Command, args []string) {
	if !commandHandler.session.openOrLog(cmd) {
		return
	}
	objects := commandHandler.session.provider.Objects

	var (
		obj *provider.Object
		ok  bool
	)
	if nid, err := strconv.Atoi(args[0]); err == nil {
		obj, ok = objects.LookupByID(nid)
	} else {
		obj, ok = objects.LookupByOID(args[0])
	}
	if !ok {
		commandHandler.session.logger.Warn("no such object: ", args[0])
		return
	}
	printObject(cmd, obj)
}

// RegisterObjectCmd creates an object for the lifetime of the process and prints it
func (commandHandler *ProviderCommandHandler) RegisterObjectCmd(cmd *cobra.Command, _ []string) {
	oid, err := cmd.Flags().GetString("oid")
	if err != nil {
		logErr(commandHandler.session, "invalid oid flag ", err)
		return
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		logErr(commandHandler.session, "invalid name flag ", err)
		return
	}
	alias, err := cmd.Flags().GetString("alias")
	if err != nil {
		logErr(commandHandler.session, "invalid alias flag ", err)
		return
	}
	if !commandHandler.session.openOrLog(cmd) {
		return
	}

	s := commandHandler.session
	obj, err := s.provider.Objects.Register(s.Context(cmd), provider.ObjectSpec{OID: oid, ShortName: name, LongName: alias})
	if err != nil {
		s.reportErrors(err)
		return
	}
	printObject(cmd, obj)
}

func printObject(cmd *cobra.Command, obj *provider.Object) {
	fmt.Fprintf(cmd.OutOrStdout(), "nid: %d\nsn:  %s\nln:  %s\noid: %s\n", obj.NID, obj.ShortName, obj.LongName, obj.OID)
}

// InitProviderCommands registers provider-related commands
func InitProviderCommands(rootCmd *cobra.Command, session *Session) error {
	handler := NewProviderCommandHandler(session)

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print binding, runtime and provider versions",
		Args:  cobra.NoArgs,
		Run:   handler.VersionCmd,
	}
	rootCmd.AddCommand(versionCmd)

	var listCmd = &cobra.Command{
		Use:       "list <digests|ciphers|pkeys|comps>",
		Short:     "List the algorithm names of a category",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"digests", "ciphers", "pkeys", "comps"},
		Run:       handler.ListCmd,
	}
	rootCmd.AddCommand(listCmd)

	var hexCmd = &cobra.Command{
		Use:   "hex <text>",
		Short: "Hex-encode text, or decode hex with --decode",
		Args:  cobra.ExactArgs(1),
		Run:   handler.HexCmd,
	}
	hexCmd.Flags().BoolP("decode", "d", false, "Decode hex text to raw bytes")
	rootCmd.AddCommand(hexCmd)

	var objectCmd = &cobra.Command{
		Use:   "object <nid|oid|name>",
		Short: "Look up an object identifier",
		Args:  cobra.ExactArgs(1),
		Run:   handler.ObjectCmd,
	}
	rootCmd.AddCommand(objectCmd)

	var registerObjectCmd = &cobra.Command{
		Use:   "object-register",
		Short: "Register an object identifier",
		Args:  cobra.NoArgs,
		Run:   handler.RegisterObjectCmd,
	}
	registerObjectCmd.Flags().StringP("oid", "", "", "Dotted object identifier")
	registerObjectCmd.Flags().StringP("name", "", "", "Short name")
	registerObjectCmd.Flags().StringP("alias", "", "", "Long name, defaults to the short name")
	_ = registerObjectCmd.MarkFlagRequired("oid")
	_ = registerObjectCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(registerObjectCmd)

	return nil
}
