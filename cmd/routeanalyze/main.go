// Command routeanalyze runs the route-rule analysis batch job: it
// discovers recently accessed hosts, refreshes their reachability from
// every configured vantage, clusters semantically-equivalent hosts, and
// publishes a per-region routing rule set.
package main

import (
	"os"

	"routeanalyzer/cmd/routeanalyze/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
