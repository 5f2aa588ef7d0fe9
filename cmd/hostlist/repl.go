package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/hostlist/pkg/hostlist"
)

const historyFile = ".hostlist_history"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively expand expressions",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	fmt.Println("hostlist REPL. Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if quit := replCommand(line); quit {
				return nil
			}
			continue
		}

		hosts, err := hostlist.Expand(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		for _, h := range hosts {
			fmt.Println(h)
		}
	}
}

// replCommand handles ":" commands. It reports whether the REPL should
// exit.
func replCommand(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":count":
		n, err := hostlist.Count(strings.TrimSpace(strings.TrimPrefix(line, ":count")))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
		fmt.Println(n)
	case ":compress":
		fmt.Println(hostlist.Compress(fields[1:]))
	default:
		fmt.Println("unknown command. :quit exits; :count EXPR and :compress HOST... are available.")
	}
	return false
}
