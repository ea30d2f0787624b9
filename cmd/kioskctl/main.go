// Command kioskctl prepares kiosk data offline: it normalizes the raw
// schedule scrape, builds the stadium image manifest and previews layout fits.
package main

import (
	"fmt"
	"os"

	"github.com/preston-bernstein/husker-kiosk/internal/logging"
)

const appVersion = "dev"

func main() {
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "kioskctl",
		Version: appVersion,
		Output:  os.Stderr,
	})
	if err := newRootCmd(logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
