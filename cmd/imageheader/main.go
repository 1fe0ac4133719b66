// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Command imageheader prints the header information of image files.
//
// Usage:
//
//	imageheader [-q] [-pages] [file]
//
// Without a file argument it reads file paths from stdin until "q" is entered.
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bep/imageheader"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type printer struct {
	p        *message.Printer
	w        io.Writer
	quiet    bool
	allPages bool
	logger   *log.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("imageheader", flag.ContinueOnError)
	fs.SetOutput(stderr)
	quiet := fs.Bool("q", false, "do not print the time spent")
	pages := fs.Bool("pages", false, "print every page of multi-page images")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	pr := &printer{
		p:        message.NewPrinter(language.English),
		w:        stdout,
		quiet:    *quiet,
		allPages: *pages,
		logger:   log.New(stderr, "imageheader: ", 0),
	}

	switch fs.NArg() {
	case 0:
		pr.interactive(stdin)
		return 0
	case 1:
		if !pr.resolve(fs.Arg(0)) {
			return 1
		}
		return 0
	default:
		fs.Usage()
		return 2
	}
}

func (pr *printer) interactive(stdin io.Reader) {
	scanner := bufio.NewScanner(stdin)
	for {
		pr.p.Fprintln(pr.w, "input file path to resolve, or q to quit.")
		if !scanner.Scan() {
			break
		}
		filename := strings.TrimSpace(scanner.Text())
		if filename == "q" {
			break
		}
		if filename == "" {
			continue
		}
		pr.resolve(filename)
	}
	if err := scanner.Err(); err != nil {
		pr.logger.Printf("failed to read input: %v", err)
	}
}

func (pr *printer) resolve(filename string) bool {
	start := time.Now()
	info, err := imageheader.ResolveFile(filename, imageheader.Options{Warnf: pr.logger.Printf})
	elapsed := time.Since(start)
	if err != nil {
		pr.p.Fprintf(pr.w, "file '%s' : failed to resolve: %v\n", filename, err)
		return false
	}
	defer info.Release()

	pr.printPage(&info)
	if pr.allPages {
		for i, page := range info.Pages()[1:] {
			pr.p.Fprintf(pr.w, "--- page %d\n", i+2)
			pr.printPage(page)
		}
	}
	if !pr.quiet {
		pr.p.Fprintf(pr.w, "time cost   : %dus\n", elapsed.Microseconds())
	}
	return true
}

func (pr *printer) printPage(info *imageheader.ImageInfo) {
	pr.p.Fprintf(pr.w, "format      : %s\n", info.Format.Name())
	pr.p.Fprintf(pr.w, "file size   : %d\n", info.FileSize)
	pr.p.Fprintf(pr.w, "width       : %d\n", info.Width)
	pr.p.Fprintf(pr.w, "height      : %d\n", info.Height)
	pr.p.Fprintf(pr.w, "color depth : %d\n", info.ColorDepth)
	pr.p.Fprintf(pr.w, "channels    : %d\n", info.Channels)
	pr.p.Fprintf(pr.w, "pages       : %d\n", info.PageCount)
}
