// Command ch-filing files accounts with the Companies House XML Gateway.
//
// Usage:
//
//	ch-filing --config config.json --state state.json company-data
//	ch-filing submit-accounts --accounts accounts.html
//	ch-filing submission-status [--submission-id S00001]
//	ch-filing accounts-image --accounts accounts.html
//
// The state location is a JSON file path or a mongodb:// URI.
package main

import (
	"os"
)

func main() {
	root, a := newRootCmd()
	if err := execute(root, a); err != nil {
		reportError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
