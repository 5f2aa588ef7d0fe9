package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/square/gcmd"

	"github.com/lemonberrylabs/hostlist/pkg/hostlist"
)

var runCmd = &cobra.Command{
	Use:   "run -e EXPR -- CMD [ARG...]",
	Short: "Run a command across the expanded hosts over ssh",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringP("expr", "e", "", "hostlist expression to expand")
	runCmd.Flags().Int("maxflight", 50, "maximum number of parallel processes")
	runCmd.Flags().Int("timeout", 10, "timeout in seconds for the initial connection")
	runCmd.Flags().BoolP("collapse", "c", false, "fold identical output lines into one line per host set")
	runCmd.MarkFlagRequired("expr")
}

func runRun(cmd *cobra.Command, args []string) error {
	expr, _ := cmd.Flags().GetString("expr")
	maxflight, _ := cmd.Flags().GetInt("maxflight")
	timeout, _ := cmd.Flags().GetInt("timeout")
	collapse, _ := cmd.Flags().GetBool("collapse")

	hosts, err := hostlist.Expand(expr)
	if err != nil {
		return err
	}

	// __NODE__ is replaced with each hostname
	sshArgs := []string{"__NODE__", "-n", "-o", fmt.Sprintf("ConnectTimeout=%d", timeout)}
	sshArgs = append(sshArgs, args...)

	g := gcmd.New(hosts, "ssh", sshArgs...)
	g.Maxflight = maxflight

	if !collapse {
		g.Run()
		return nil
	}

	// The handlers run on per-host goroutines.
	var mu sync.Mutex
	stdoutNodes := map[string][]string{}
	stderrNodes := map[string][]string{}
	exitNodes := map[string][]string{}

	g.StdoutHandler = func(node, line string) {
		mu.Lock()
		stdoutNodes[line] = append(stdoutNodes[line], node)
		mu.Unlock()
	}
	g.StderrHandler = func(node, line string) {
		mu.Lock()
		stderrNodes[line] = append(stderrNodes[line], node)
		mu.Unlock()
	}
	g.ExitHandler = func(node string, exit error) {
		status := "success"
		if exit != nil {
			status = exit.Error()
		}
		mu.Lock()
		exitNodes[status] = append(exitNodes[status], node)
		mu.Unlock()
	}

	g.Run()

	for line, nodes := range stdoutNodes {
		fmt.Println(hostlist.Compress(nodes), "STDOUT", line)
	}
	for line, nodes := range stderrNodes {
		fmt.Println(hostlist.Compress(nodes), "STDERR", line)
	}
	for status, nodes := range exitNodes {
		fmt.Println(hostlist.Compress(nodes), "STATUS", status)
	}
	return nil
}
