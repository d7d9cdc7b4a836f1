package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// confirm asks a yes/no question on the command's input. Anything but y or
// yes counts as no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// confirmPhrase requires the exact phrase to be typed back
func confirmPhrase(cmd *cobra.Command, question, phrase string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\nType %q to confirm: ", question, phrase)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line) == phrase
}
