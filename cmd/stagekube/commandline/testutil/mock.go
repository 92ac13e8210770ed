// Package testutil provides a flarc.Commandline double for exercising
// leaf subcommand Task functions directly, without going through flarc's
// own flag-parsing layer. Adapted from the teacher's
// cmd/knit/subcommands/internal/commandline.MockCommandline.
package testutil

import (
	"io"

	"github.com/youta-t/flarc"
)

type MockCommandline[T any] struct {
	Fullname_ string

	Stdin_  io.Reader
	Stdout_ io.Writer
	Stderr_ io.Writer

	Flags_ T
	Args_  map[string][]string
}

var _ flarc.Commandline[struct{}] = &MockCommandline[struct{}]{}

func (c MockCommandline[T]) Fullname() string { return c.Fullname_ }
func (c MockCommandline[T]) Stdin() io.Reader { return c.Stdin_ }
func (c MockCommandline[T]) Stdout() io.Writer { return c.Stdout_ }
func (c MockCommandline[T]) Stderr() io.Writer { return c.Stderr_ }
func (c MockCommandline[T]) Flags() T { return c.Flags_ }
func (c MockCommandline[T]) Args() map[string][]string { return c.Args_ }
