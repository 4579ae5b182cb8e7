// Package commands contains the CLI commands for the application
package commands

import "io"

type Flags struct {
	LogLevel string
	Limit    int
}

type Controller struct {
	Flags *Flags

	// Out receives command output; defaults to os.Stdout.
	Out io.Writer
}
