package main

import (
	"fmt"
	"strings"
)

// validateSSHTarget checks that raw is a plain user@host. Ports belong in --ssh-port.
func validateSSHTarget(raw string) error {
	if strings.Count(raw, "@") != 1 {
		return fmt.Errorf("invalid --ssh %q: expected user@host", raw)
	}
	user, host, _ := strings.Cut(raw, "@")
	switch {
	case user == "" || host == "":
		return fmt.Errorf("invalid --ssh %q: expected user@host", raw)
	case strings.HasPrefix(user, "-") || strings.HasPrefix(host, "-"):
		return fmt.Errorf("invalid --ssh %q", raw)
	case strings.ContainsAny(raw, " \t\r\n/\\"):
		return fmt.Errorf("invalid --ssh %q: unexpected character", raw)
	}

	if strings.HasPrefix(host, "[") {
		end := strings.Index(host, "]")
		switch {
		case end == -1:
			return fmt.Errorf("invalid --ssh %q: malformed bracketed host", raw)
		case end == 1:
			return fmt.Errorf("invalid --ssh %q: empty host", raw)
		case end != len(host)-1:
			rest := host[end+1:]
			if strings.HasPrefix(rest, ":") && isAllDigits(rest[1:]) {
				return fmt.Errorf("--ssh %q must not include :port; use --ssh-port", raw)
			}
			return fmt.Errorf("invalid --ssh %q: malformed bracketed host", raw)
		}
		return nil
	}
	if strings.Contains(host, "]") {
		return fmt.Errorf("invalid --ssh %q: malformed bracketed host", raw)
	}
	if looksLikeHostPort(host) {
		return fmt.Errorf("--ssh %q must not include :port; use --ssh-port", raw)
	}
	return nil
}

func looksLikeHostPort(host string) bool {
	if strings.Count(host, ":") != 1 {
		return false
	}
	_, port, _ := strings.Cut(host, ":")
	return isAllDigits(port)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
