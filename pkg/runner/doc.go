/*
Package runner provides the interactive chat loop used by the CLI.

It reads utterances line by line from an io.Reader, runs them through a
bot, and writes the rendered replies to an io.Writer. Rendering is a
pluggable function so the loop stays usable from tests and from rich
terminal frontends alike.
*/
package runner
