package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"messenger-core/core/directory"
	"messenger-core/core/wire"
	"messenger-core/feature/privacy"

	"github.com/spf13/cobra"
)

var privacyCmd = &cobra.Command{
	Use:   "privacy",
	Short: "Inspect privacy rule lists",
}

// canonicalizeCmd prints the canonical form of a rule list.
var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize [file]",
	Short: "Print the canonical form of a privacy rule list",
	Long: `Reads a JSON array of privacy rules from the file, or stdin when no
file is given, and prints the list the server would store. Every user and
chat is treated as known.

Example:
  echo '[{"@type":"userPrivacySettingRuleAllowContacts"},{"@type":"userPrivacySettingRuleRestrictAll"}]' | messenger-core privacy canonicalize`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return canonicalize(in, cmd.OutOrStdout())
	},
}

func canonicalize(in io.Reader, out io.Writer) error {
	var rules []privacy.APIRule
	if err := json.NewDecoder(in).Decode(&rules); err != nil {
		return fmt.Errorf("failed to decode rules: %w", err)
	}
	canonical, err := privacy.FromAPI(knownEverything{}, rules, nil)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(canonical.APIObjects())
}

// knownEverything resolves every id and treats every channel as a group.
type knownEverything struct{}

func (knownEverything) HaveUser(int64) bool                  { return true }
func (knownEverything) HaveChat(int64) bool                  { return true }
func (knownEverything) HaveChannel(int64) bool               { return true }
func (knownEverything) IsMegagroup(int64) bool               { return true }
func (knownEverything) HaveDialog(d directory.DialogID) bool { return d.Type() != directory.DialogNone }
func (knownEverything) InputUser(id int64) (wire.InputUser, bool) {
	return wire.InputUser{UserID: id}, true
}

func init() {
	privacyCmd.AddCommand(canonicalizeCmd)
	RootCmd.AddCommand(privacyCmd)
}
