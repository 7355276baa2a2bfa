package remote

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mordilloSan/go-logger/logger"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/term"
)

// keyFiles are tried in order under ~/.ssh.
var keyFiles = []string{"id_ed25519", "id_ecdsa", "id_rsa", "id_dsa"}

// authMethods lists the ways to log in as user: ssh-agent, unencrypted default
// keys, then (outside batch mode) a password prompt.
func authMethods(user, host string, batch bool) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")); sock != "" {
		methods = append(methods, ssh.PublicKeysCallback(agentSigners(sock)))
	}
	if signers := keySigners(); len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	if !batch {
		p := &passwordPrompt{user: user, host: host, read: readPassword}
		methods = append(methods,
			ssh.PasswordCallback(p.password),
			ssh.KeyboardInteractive(p.challenge),
		)
	}

	if len(methods) == 0 {
		return nil, errors.New("no ssh auth method available: start ssh-agent or add a key under ~/.ssh")
	}
	return methods, nil
}

func agentSigners(sock string) func() ([]ssh.Signer, error) {
	return func() ([]ssh.Signer, error) {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			return nil, fmt.Errorf("ssh-agent: %w", err)
		}
		defer conn.Close()
		return agent.NewClient(conn).Signers()
	}
}

func keySigners() []ssh.Signer {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var signers []ssh.Signer
	for _, name := range keyFiles {
		file := filepath.Join(home, ".ssh", name)
		pem, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			// Passphrase-protected keys are left to the agent.
			logger.DebugKV("skip ssh key", "file", file, "error", err)
			continue
		}
		signers = append(signers, signer)
	}
	return signers
}

// passwordPrompt asks for the password once and reuses it for both the
// password and keyboard-interactive methods.
type passwordPrompt struct {
	user string
	host string
	read func(prompt string) (string, error)

	once sync.Once
	pass string
	err  error
}

func (p *passwordPrompt) password() (string, error) {
	p.once.Do(func() {
		p.pass, p.err = p.read(fmt.Sprintf("%s@%s's password: ", p.user, p.host))
	})
	return p.pass, p.err
}

func (p *passwordPrompt) challenge(_, _ string, questions []string, echos []bool) ([]string, error) {
	if len(questions) == 0 {
		return nil, nil
	}
	pass, err := p.password()
	if err != nil {
		return nil, err
	}
	answers := make([]string, len(questions))
	for i := range questions {
		if i < len(echos) && echos[i] {
			continue
		}
		answers[i] = pass
	}
	return answers, nil
}

func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("cannot prompt for ssh password: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
