package remote

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/mordilloSan/go-logger/logger"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"
)

// hostKeyChecker verifies server keys against ~/.ssh/known_hosts. Unknown hosts
// are trusted on first use after confirmation; changed keys need confirmation
// too. In batch mode both cases are errors.
type hostKeyChecker struct {
	file   string
	host   string
	port   int
	batch  bool
	verify ssh.HostKeyCallback
	// confirm asks the user a yes/no question.
	confirm func(question string) (bool, error)
}

func newHostKeyChecker(host string, port int, batch bool) (*hostKeyChecker, error) {
	file, err := knownHostsFile()
	if err != nil {
		return nil, err
	}
	verify, err := knownhosts.New(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}
	return &hostKeyChecker{
		file:    file,
		host:    host,
		port:    port,
		batch:   batch,
		verify:  verify,
		confirm: askYesNo,
	}, nil
}

func (h *hostKeyChecker) check(hostname string, remote net.Addr, key ssh.PublicKey) error {
	err := h.verify(hostname, remote, key)
	if err == nil {
		return nil
	}

	var keyErr *knownhosts.KeyError
	if !errors.As(err, &keyErr) {
		return fmt.Errorf("verify host key: %w", err)
	}

	addr := hostAddress(h.host, h.port)
	presented := ssh.FingerprintSHA256(key)

	if len(keyErr.Want) == 0 {
		if h.batch {
			return fmt.Errorf("unknown host key for %s (%s); connect once without --ssh-batch to trust it", addr, presented)
		}
		ok, err := h.confirm(fmt.Sprintf(
			"The authenticity of host '%s' can't be established.\n%s key fingerprint is %s.\nTrust this host and continue connecting (yes/no)? ",
			addr, key.Type(), presented))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host key for %s not trusted", addr)
		}
		logger.InfoKV("trusting new host key", "host", addr, "fingerprint", presented)
		return appendKnownHost(h.file, addr, key)
	}

	want := make([]string, 0, len(keyErr.Want))
	for _, k := range keyErr.Want {
		want = append(want, ssh.FingerprintSHA256(k.Key))
	}
	expected := strings.Join(want, ", ")

	if h.batch {
		return fmt.Errorf("host key mismatch for %s: expected %s, presented %s", addr, expected, presented)
	}
	ok, err := h.confirm(fmt.Sprintf(
		"WARNING: HOST KEY CHANGED for '%s'.\nExpected: %s\nPresented: %s\nReplace stored key and continue (yes/no)? ",
		addr, expected, presented))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host key mismatch for %s", addr)
	}
	logger.WarnKV("replacing host key", "host", addr, "expected", expected, "presented", presented)
	return replaceKnownHost(h.file, h.host, h.port, key)
}

func knownHostsFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate known_hosts: %w", err)
	}
	dir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	file := filepath.Join(dir, "known_hosts")
	f, err := os.OpenFile(file, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file, err)
	}
	_ = f.Close()
	return file, nil
}

// hostAddress is the known_hosts spelling of host:port.
func hostAddress(host string, port int) string {
	if port == 22 {
		return host
	}
	return fmt.Sprintf("[%s]:%d", host, port)
}

func appendKnownHost(file, addr string, key ssh.PublicKey) error {
	f, err := os.OpenFile(file, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("update known_hosts: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, knownhosts.Line([]string{addr}, key)); err != nil {
		return fmt.Errorf("write known_hosts: %w", err)
	}
	return nil
}

func replaceKnownHost(file, host string, port int, key ssh.PublicKey) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read known_hosts: %w", err)
	}

	kept := dropKnownHost(string(data), host, port)
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}
	kept += knownhosts.Line([]string{hostAddress(host, port)}, key) + "\n"

	if err := os.WriteFile(file, []byte(kept), 0o600); err != nil {
		return fmt.Errorf("write known_hosts: %w", err)
	}
	return nil
}

// dropKnownHost removes every known_hosts line naming host on port. Comments,
// blank lines and other hosts are kept as they are.
func dropKnownHost(data, host string, port int) string {
	names := map[string]bool{
		host:                               true,
		fmt.Sprintf("[%s]:%d", host, port): true,
	}
	if port != 22 {
		delete(names, host)
	}

	lines := strings.Split(data, "\n")
	kept := lines[:0]
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			kept = append(kept, line)
			continue
		}
		hosts := fields[0]
		if strings.HasPrefix(hosts, "@") && len(fields) > 1 {
			hosts = fields[1]
		}
		if !namesAny(hosts, names) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func namesAny(hostField string, names map[string]bool) bool {
	for _, h := range strings.Split(hostField, ",") {
		if names[h] {
			return true
		}
	}
	return false
}

func askYesNo(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("cannot confirm host key: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
