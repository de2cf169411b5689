// Command health-test polls the API health routes until both report ok or
// the wait budget runs out. Usage: health-test [baseURL] [wait].
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

type healthBody struct {
	OK       bool    `json:"ok"`
	Status   string  `json:"status"`
	Service  string  `json:"service"`
	Database string  `json:"database"`
	Uptime   float64 `json:"uptime"`
}

func main() {
	base := "http://localhost:8080"
	if len(os.Args) > 1 {
		base = os.Args[1]
	}
	wait := 30 * time.Second
	if len(os.Args) > 2 {
		d, err := time.ParseDuration(os.Args[2])
		if err != nil {
			fmt.Printf("❌ Invalid wait duration %q: %v\n", os.Args[2], err)
			os.Exit(2)
		}
		wait = d
	}

	client := &http.Client{Timeout: 5 * time.Second}
	deadline := time.Now().Add(wait)

	for _, path := range []string{"/health", "/api/v1/health"} {
		url := base + path
		fmt.Printf("🔍 Probing %s\n", url)

		for {
			health, status, err := probe(client, url)
			if err == nil && status == http.StatusOK && health.Status == "ok" {
				fmt.Printf("✅ %s healthy (service=%s database=%s uptime=%.0fs)\n",
					path, health.Service, health.Database, health.Uptime)
				break
			}
			if time.Now().After(deadline) {
				if err != nil {
					fmt.Printf("❌ %s unreachable: %v\n", path, err)
				} else {
					fmt.Printf("❌ %s unhealthy: http=%d status=%s database=%s\n",
						path, status, health.Status, health.Database)
				}
				os.Exit(1)
			}
			time.Sleep(time.Second)
		}
	}
}

func probe(client *http.Client, url string) (healthBody, int, error) {
	var health healthBody
	resp, err := client.Get(url)
	if err != nil {
		return health, 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return health, resp.StatusCode, fmt.Errorf("decode body: %w", err)
	}
	return health, resp.StatusCode, nil
}
