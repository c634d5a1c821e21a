// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Command keygen bcrypt-hashes an API key for the API_KEY_HASHES setting.
//
// Pass the key as the single argument, or pipe it on stdin to keep it out
// of shell history:
//
//	./keygen my-operator-key-123456
//	openssl rand -base64 24 | ./keygen
//
// The hash goes to stdout; everything else goes to stderr.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/petram44/praesidio/internal/auth"
)

func main() {
	key, err := readKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}

	hash, err := auth.HashKey(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}

func readKey() (string, error) {
	switch len(os.Args) {
	case 1:
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading stdin: %w", err)
			}
			return "", fmt.Errorf("no key on stdin")
		}
		return strings.TrimSpace(scanner.Text()), nil
	case 2:
		return os.Args[1], nil
	default:
		return "", fmt.Errorf("usage: keygen [key]")
	}
}
