package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Terminal colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// useColor is decided once per invocation in the root command.
var useColor bool

func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

func successText(s string) string { return paint(colorGreen, s) }
func errorText(s string) string   { return paint(colorRed, s) }
func warningText(s string) string { return paint(colorYellow, s) }
func infoText(s string) string    { return paint(colorBlue, s) }
func folderText(s string) string  { return paint(colorCyan, s) }
func headerText(s string) string  { return paint(colorBold, s) }

func errorf(format string, args ...interface{}) string {
	return errorText(fmt.Sprintf(format, args...))
}

// printTable aligns the plain text with tabwriter and paints the header line
// afterwards, so escape codes never count towards column widths.
func printTable(w io.Writer, header []string, rows [][]string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	head, body, _ := strings.Cut(buf.String(), "\n")
	_, err := fmt.Fprint(w, headerText(head)+"\n"+body)
	return err
}
