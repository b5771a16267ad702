// fsaudit - declared file-state audit and remediation
//
// Reads one structured request describing desired state for a set of paths
// (mode, owner, group, content), audits the current state, applies fixes
// unless the request is check-only, and writes one structured response.
//
// Commands:
//   --version          Show version information
//   --config <path>    Use specific config file (YAML, optional override)
//   --request <path>   Read the request from a file instead of stdin
//   --out <path>       Write the response to a file (atomic) instead of stdout
//   --run-log <path>   Append one record per completed run
//   watch              Re-run the audit when watched paths change

package main

import (
	"fmt"
	"os"

	cfgpkg "fsaudit/internal/config"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// Global config
var config cfgpkg.Config
var configPath string

func main() {
	args := os.Args[1:]
	configFlag := ""
	requestPath := ""
	outPath := ""
	runLogFlag := ""
	filteredArgs := []string{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			configFlag = args[i+1]
			i++
		case args[i] == "--request" && i+1 < len(args):
			requestPath = args[i+1]
			i++
		case args[i] == "--out" && i+1 < len(args):
			outPath = args[i+1]
			i++
		case args[i] == "--run-log" && i+1 < len(args):
			runLogFlag = args[i+1]
			i++
		default:
			filteredArgs = append(filteredArgs, args[i])
		}
	}

	cfg, cfgPath, err := cfgpkg.Resolve(cfgpkg.Flags{ConfigPath: configFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Config load failed: %v\n", err)
		os.Exit(1)
	}
	if runLogFlag != "" {
		cfg.RunLogPath = runLogFlag
	}
	config = cfg
	configPath = cfgPath

	if len(filteredArgs) == 0 {
		runAudit(requestPath, outPath)
		return
	}

	cmd := filteredArgs[0]
	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("fsaudit v%s (built %s)\n", Version, BuildDate)
		if configPath != "" {
			fmt.Printf("Config: %s\n", configPath)
		}

	case "audit":
		runAudit(requestPath, outPath)

	case "watch":
		runWatch(requestPath, outPath)

	case "--help", "-h", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fsaudit - declared file-state audit and remediation

Usage:
  fsaudit [audit] [flags]            Read request from stdin, write response to stdout
  fsaudit watch --request <path>     Re-run the audit when watched paths change
  fsaudit --version                  Show version information

Flags:
  --config <path>    Optional YAML config override
  --request <path>   Read the request from a file instead of stdin
  --out <path>       Write the response to a file (atomic) instead of stdout
  --run-log <path>   Append one record per completed run

Request:
  {"check_only": false, "files": [{"path": "...", "mode": "0644",
   "owner": "...", "group": "...", "content": "...", "content_source": "..."}]}
  The files collection may also be an object keyed by arbitrary names.

Exit status:
  Non-zero only for a malformed request or an execution failure.
  non_compliant and partial_failure are data-level outcomes and exit zero.`)
}
