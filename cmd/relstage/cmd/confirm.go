package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/relstage/relstage/pkg/release"
	"golang.org/x/term"
)

// rewriteConfirmer builds the confirmation hook guarding history rewrites.
//
// The hook accepts without prompting when --force is set, declines when there
// is no terminal to ask on, and otherwise asks the user.
func rewriteConfirmer() release.ConfirmFunc {
	return func(prompt string) bool {
		if relstageFlags.bump.Force {
			return true
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			infoLogger.Println("refusing to rewrite history without a terminal to confirm on (use --force to override)")
			return false
		}
		return userConfirm(prompt)
	}
}

func userConfirm(prompt string) bool {
	infoLogger.Println(color.YellowString(prompt))
	fmt.Print("Are you sure you want to rewrite history? [y|n] ")
	var answer string
	_, _ = fmt.Scanln(&answer)
	yesno := strings.ToLower(answer)
	return yesno == "y" || yesno == "yes"
}
