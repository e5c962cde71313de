package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

type commandKind string

const (
	commandUp      commandKind = "up"
	commandDown    commandKind = "down"
	commandVersion commandKind = "version"
	commandForce   commandKind = "force"
	commandGoto    commandKind = "goto"
)

var errUsage = crerr.New("usage: migration <up|down [steps]|version|force <version>|goto <version>>")

type command struct {
	kind    commandKind
	steps   int
	version int
	target  uint
}

// parseCommand reads os.Args[1:]. "migrate" is accepted as an alias of goto.
func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errUsage
	}

	kind := commandKind(strings.ToLower(strings.TrimSpace(args[0])))
	rest := args[1:]
	switch kind {
	case commandUp, commandVersion:
		return command{kind: kind}, nil
	case commandDown:
		steps, err := parseSteps(rest)
		if err != nil {
			return command{}, err
		}
		return command{kind: kind, steps: steps}, nil
	case commandForce:
		if len(rest) == 0 {
			return command{}, crerr.New("force requires a version argument")
		}
		version, err := parseVersion(rest[0])
		if err != nil {
			return command{}, err
		}
		return command{kind: kind, version: version}, nil
	case commandGoto, "migrate":
		if len(rest) == 0 {
			return command{}, crerr.New("goto requires a target version argument")
		}
		target, err := parseTarget(rest[0])
		if err != nil {
			return command{}, err
		}
		return command{kind: commandGoto, target: target}, nil
	default:
		return command{}, errUsage
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, crerr.Wrapf(err, "invalid down steps %q", args[0])
	}
	if steps <= 0 {
		return 0, crerr.New("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, crerr.Wrapf(err, "invalid version %q", raw)
	}
	if value < 0 {
		return 0, crerr.New("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, crerr.New("version is too large for this platform")
	}
	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, crerr.Wrapf(err, "invalid target version %q", raw)
	}
	return uint(value), nil
}

// resolveMigrationsDir returns the first existing directory among the env
// overrides and the default locations.
func resolveMigrationsDir(candidates ...string) (string, error) {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", crerr.Newf("migration directory not found (checked %s)", strings.Join(candidates, ", "))
}
