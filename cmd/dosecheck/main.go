// Command dosecheck serves and exports the DoseCheck dashboard.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("dosecheck failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
