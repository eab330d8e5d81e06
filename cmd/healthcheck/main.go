// Package main probes the local server's liveness endpoint for container
// health checks. It exits 0 when /healthz answers 200.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

func port() string {
	for _, key := range []string{"HESTIA_PORT", "PORT"} {
		if p := os.Getenv(key); p != "" {
			return p
		}
	}
	return "10000"
}

func main() {
	client := &http.Client{Timeout: 8 * time.Second}
	url := fmt.Sprintf("http://localhost:%s/healthz", port())

	resp, err := client.Get(url)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
