// Package main is the hostlist command line tool.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/square/erg"

	"github.com/lemonberrylabs/hostlist/pkg/api"
	"github.com/lemonberrylabs/hostlist/pkg/groups"
	"github.com/lemonberrylabs/hostlist/pkg/hostlist"
	"github.com/lemonberrylabs/hostlist/web"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:          "hostlist",
	Short:        "Expand and compress cluster hostname expressions",
	Args:         cobra.ArbitraryArgs,
	RunE:         runExpand,
	SilenceUsage: true,
}

var expandCmd = &cobra.Command{
	Use:   "expand [flags] EXPR...",
	Short: "Expand expressions into hostnames",
	Args:  cobra.ArbitraryArgs,
	RunE:  runExpand,
}

var compressCmd = &cobra.Command{
	Use:   "compress [HOST...]",
	Short: "Compress hostnames into an expression",
	RunE:  runCompress,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hostlist HTTP service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("hostlist version {{.Version}}\n")

	addExpandFlags(rootCmd)
	addExpandFlags(expandCmd)

	serveCmd.Flags().Int("port", 0, "HTTP server port (default 8080, env PORT)")
	serveCmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	serveCmd.Flags().String("groups-dir", "", "Directory of group YAML files to load (env GROUPS_DIR)")

	rootCmd.AddCommand(expandCmd, compressCmd, runCmd, replCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addExpandFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("sort", "s", false, "sort hosts in natural order")
	cmd.Flags().BoolP("count", "c", false, "print only the number of hosts")
	cmd.Flags().String("separator", "\n", "separator between hosts")
	cmd.Flags().StringP("group", "g", "", "expand a named group from the groups file")
	cmd.Flags().StringP("groups-file", "f", "", "groups YAML file (env GROUPS_FILE)")
	cmd.Flags().BoolP("remote", "r", false, "expand via a range server (env RANGE_HOST, RANGE_PORT)")
}

func runExpand(cmd *cobra.Command, args []string) error {
	group, _ := cmd.Flags().GetString("group")
	if len(args) == 0 && group == "" {
		return cmd.Help()
	}

	query := strings.Join(args, ",")
	if group != "" {
		if len(args) > 0 {
			return fmt.Errorf("cannot combine --group with expressions")
		}
		expr, err := groupExpression(cmd, group)
		if err != nil {
			return err
		}
		query = expr
	}

	var hosts []string
	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		client, err := rangeClient()
		if err != nil {
			return err
		}
		hosts, err = client.Expand(query)
		if err != nil {
			return fmt.Errorf("remote expand %q: %w", query, err)
		}
	} else {
		var err error
		hosts, err = hostlist.Expand(query)
		if err != nil {
			return err
		}
	}

	if sorted, _ := cmd.Flags().GetBool("sort"); sorted {
		hostlist.Sort(hosts)
	}

	if countOnly, _ := cmd.Flags().GetBool("count"); countOnly {
		fmt.Println(len(hosts))
		return nil
	}

	sep, _ := cmd.Flags().GetString("separator")
	fmt.Println(strings.Join(hosts, sep))
	return nil
}

func groupExpression(cmd *cobra.Command, name string) (string, error) {
	path := os.Getenv("GROUPS_FILE")
	if v, _ := cmd.Flags().GetString("groups-file"); v != "" {
		path = v
	}
	if path == "" {
		return "", fmt.Errorf("--group needs a groups file (--groups-file or GROUPS_FILE)")
	}
	reg := groups.New()
	if err := reg.LoadFile(path); err != nil {
		return "", err
	}
	return reg.Get(name)
}

func rangeClient() (*erg.Erg, error) {
	host := envOrDefault("RANGE_HOST", "localhost")
	port := 80
	if v := os.Getenv("RANGE_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid port in RANGE_PORT: %q", v)
		}
		port = p
	}
	return erg.New(host, port), nil
}

func runCompress(cmd *cobra.Command, args []string) error {
	hosts := args
	if len(hosts) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				hosts = append(hosts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}
	fmt.Println(hostlist.Compress(hosts))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	port := envOrDefault("PORT", "8080")
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = fmt.Sprintf("%d", v)
	}

	host := envOrDefault("HOST", "0.0.0.0")
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		host = v
	}

	groupsDir := os.Getenv("GROUPS_DIR")
	if v, _ := cmd.Flags().GetString("groups-dir"); v != "" {
		groupsDir = v
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	reg := groups.New()
	server := api.New(reg)

	if groupsDir != "" {
		if err := reg.LoadDir(groupsDir); err != nil {
			log.Printf("Warning: failed to load groups directory: %v", err)
		}
	}

	// Register the web UI (non-fatal if template parsing fails)
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Warning: web UI disabled due to template error: %v", r)
			}
		}()
		ui := web.New(reg)
		ui.Register(server.App())
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("hostlist service listening on %s", addr)
	if groupsDir != "" {
		log.Printf("Groups directory: %s", groupsDir)
	}
	return server.Listen(addr)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
