package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(" +")

// RunTDO executes a tdo command with the given arguments string (split by spaces).
// Use RunTDOArgs when arguments contain spaces that should be preserved.
func RunTDO(ctx context.Context, env []string, binary, cmdArgs string, stdin string) (stdout, stderr []byte, err error) {
	cmdArgs = strings.TrimSpace(cmdArgs)
	cmdArgs = multiSpaceRegex.ReplaceAllString(cmdArgs, " ")

	var args []string
	if cmdArgs != "" {
		args = strings.Split(cmdArgs, " ")
	}

	return RunTDOArgs(ctx, env, binary, args, stdin)
}

// RunTDOArgs executes a tdo command with pre-split arguments, stdin is written
// to the command input.
func RunTDOArgs(ctx context.Context, env []string, binary string, args []string, stdin string) (stdout, stderr []byte, err error) {
	var outData, errData bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &outData
	cmd.Stderr = &errData

	// Custom env overrides os.Environ(), in exec.Cmd the last duplicate key wins.
	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, "TDO_NO_COLOR=true")
	newEnv = append(newEnv, env...)
	cmd.Env = newEnv

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}
