// Package tui is the terminal surface. Render prints a View as plain text and
// Session runs an interactive prompt loop backed by survey.
package tui
