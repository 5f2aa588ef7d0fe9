// Package main is the entry point for the hostlist daemon.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lemonberrylabs/hostlist/pkg/api"
	"github.com/lemonberrylabs/hostlist/pkg/groups"
	"github.com/lemonberrylabs/hostlist/web"
)

func main() {
	portFlag := flag.Int("port", 0, "HTTP server port (default 8080, env PORT)")
	hostFlag := flag.String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	groupsDirFlag := flag.String("groups-dir", "", "Directory of group YAML files to load (env GROUPS_DIR)")
	flag.Parse()

	port := envOrDefault("PORT", "8080")
	if *portFlag != 0 {
		port = fmt.Sprintf("%d", *portFlag)
	}

	host := envOrDefault("HOST", "0.0.0.0")
	if *hostFlag != "" {
		host = *hostFlag
	}

	groupsDir := os.Getenv("GROUPS_DIR")
	if *groupsDirFlag != "" {
		groupsDir = *groupsDirFlag
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	reg := groups.New()
	server := api.New(reg)

	// Load groups from directory if specified
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
		log.Println("Shutting down hostlistd...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("hostlistd listening on %s", addr)
	if groupsDir != "" {
		log.Printf("Groups directory: %s", groupsDir)
	} else {
		log.Printf("No groups directory specified")
	}
	if err := server.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
