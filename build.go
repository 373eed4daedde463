//go:build ignore

// build.go - DoseCheck Dashboard build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, render, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	module  = "github.com/SuperSnake427/DosecheckDashboard"
	binary  = "dosecheck"
	distDir = "dist"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	var err error
	switch *target {
	case "build":
		err = buildBinary(*verbose)
	case "test":
		err = runTests(*verbose)
	case "render":
		if err = buildBinary(*verbose); err == nil {
			err = renderPage()
		}
	case "clean":
		err = clean()
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "      DoseCheck Dashboard - Build          " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func binaryPath() string {
	name := binary
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(distDir, name)
}

// gitCommit returns the short HEAD hash, or "unknown" outside a checkout.
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

// buildBinary compiles cmd/dosecheck with the build metadata stamped into
// pkg/contracts.
func buildBinary(verbose bool) error {
	printInfo("Building " + binary + "...")

	ldflags := fmt.Sprintf("-s -w -X %[1]s/pkg/contracts.BuildTime=%[2]s -X %[1]s/pkg/contracts.GitCommit=%[3]s",
		module, time.Now().UTC().Format(time.RFC3339), gitCommit())

	args := []string{"build", "-ldflags", ldflags, "-o", binaryPath(), "./cmd/" + binary}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}
	if err := run(verbose, "go", args...); err != nil {
		return fmt.Errorf("failed to build %s: %w", binary, err)
	}

	if info, err := os.Stat(binaryPath()); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", binaryPath(), float64(info.Size())/1024/1024))
	}
	return nil
}

func runTests(verbose bool) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")
	if err := run(true, "go", args...); err != nil {
		return fmt.Errorf("go tests failed: %w", err)
	}
	return nil
}

// renderPage writes a static snapshot of the dashboard to dist/index.html.
func renderPage() error {
	out := filepath.Join(distDir, "index.html")
	printInfo("Rendering dashboard to " + out + "...")
	if err := run(true, binaryPath(), "render", "--out", out); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

func clean() error {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		return fmt.Errorf("failed to clean %s: %w", distDir, err)
	}
	return nil
}

func run(stream bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if stream {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build    Build dist/dosecheck with version metadata (default)")
	fmt.Println("  test     Run the Go tests with the race detector")
	fmt.Println("  render   Build, then render a static dist/index.html")
	fmt.Println("  clean    Remove dist/")
}
