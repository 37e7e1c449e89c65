// Command envprint prints the edge configuration read from the environment
// with secrets redacted, and whether it would pass validation.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mlehotskylf-org/marketplace-edge/internal/config"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	out := map[string]any{
		"config": cfg.Redacted(),
		"valid":  true,
	}
	if err := cfg.Validate(); err != nil {
		out["valid"] = false
		out["error"] = err.Error()
	}

	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(output))

	if out["valid"] == false {
		os.Exit(2)
	}
}
