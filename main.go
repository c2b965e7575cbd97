// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/power-control/power-control/internal/cacheutil"
	"github.com/power-control/power-control/internal/command"
	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/log"
	"github.com/power-control/power-control/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand defaults to the run command when none is given, so the
// bare binary works as a container entrypoint.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "run")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	return deduplicateFlags(args)
}

// deduplicateFlags drops earlier occurrences of a repeated flag so the last
// one wins. Expanded @set arguments commonly collide with flags given on the
// command line. Positional arguments are preserved.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type unit struct {
		name   string // empty for positionals
		tokens []string
	}

	var units []unit
	last := map[string]int{}
	for i := 2; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			units = append(units, unit{tokens: []string{a}})
			continue
		}

		u := unit{name: a, tokens: []string{a}}
		if idx := strings.Index(a, "="); idx != -1 {
			u.name = a[:idx]
		} else if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			// A bare non-flag token following a flag is its value.
			u.tokens = append(u.tokens, args[i+1])
			i++
		}
		units = append(units, u)
		last[u.name] = len(units) - 1
	}

	out := args[:2:2]
	for i, u := range units {
		if u.name != "" && last[u.name] != i {
			continue
		}
		out = append(out, u.tokens...)
	}
	return out
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands a single @set argument into the argument list it
// names in the config file, under the command's namespace.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	set := "defaults"
	removeIdx := -1
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx != -1 {
		// Remove the @set argument.
		args = append(args[:removeIdx], args[removeIdx+1:]...)
		// Expand the set arguments at the removeIdx position.
		setArgs, _ := config.GetStringSlice(args[1] + "." + set)
		for _, arg := range setArgs {
			parts := strings.Fields(arg)
			args = append(args[:removeIdx], append(parts, args[removeIdx:]...)...)
			removeIdx += len(parts)
		}
	}
	return args
}
