package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

const (
	EnvBackend  = "FCHAT_BACKEND"
	EnvDataFile = "FCHAT_DATA_FILE"
	EnvVerbose  = "FCHAT_VERBOSE"
)

// RunExtension attempts to find and execute an external fchat-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "fchat-" + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		if *Verbose {
			log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		}
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Global flags are passed as the environment variables they override.
	cmd.Env = os.Environ()
	if *backend != "" {
		cmd.Env = append(cmd.Env, EnvBackend+"="+*backend)
	}
	if *dataFile != "" {
		cmd.Env = append(cmd.Env, EnvDataFile+"="+*dataFile)
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
