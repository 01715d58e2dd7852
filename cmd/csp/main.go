// Command csp is the thin CLI shell dispatching to the four core workflow
// commands (csp:discover, csp:iterate, csp:validate, csp:export) plus the
// optional persistence status probe. The parser itself is an ambient
// engineering choice (cobra, grounded on the corpus's own CLI idiom); the
// commands it dispatches are the specified surface.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
