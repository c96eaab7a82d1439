// Command dolink-manpage writes dolink's man pages. With no argument the
// root page goes to stdout; with a directory, one page per command is
// written there.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dolink/cmd/dolink"
	"github.com/arthur-debert/dolink/internal/version"
)

func main() {
	rootCmd := dolink.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DOLINK",
		Section: "1",
		Source:  "dolink " + version.Version,
		Manual:  "dolink manual",
	}

	var err error
	if len(os.Args) > 1 {
		dir := os.Args[1]
		if err = os.MkdirAll(dir, 0755); err == nil {
			err = doc.GenManTree(rootCmd, header, dir)
		}
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
