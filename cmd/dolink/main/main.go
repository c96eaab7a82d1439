package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dolink/cmd/dolink"
	"github.com/arthur-debert/dolink/pkg/report"
)

func main() {
	rootCmd := dolink.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		r := report.New(os.Stderr, report.DefaultTheme(), report.UseColor(os.Stderr))
		if rerr := r.RenderError(err); rerr != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
