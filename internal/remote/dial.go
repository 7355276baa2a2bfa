// Package remote runs scans against a directory tree on another host over SSH/SFTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mordilloSan/go-logger/logger"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// DefaultTimeout bounds the TCP dial and SSH handshake when Config.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// Config describes how to reach the remote host.
type Config struct {
	// Target is user@host.
	Target string
	Port   int
	// BatchMode disables every interactive prompt.
	BatchMode bool
	Timeout   time.Duration
}

var dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

var newClientConn = ssh.NewClientConn

// Dial opens an SSH connection to cfg.Target and starts the SFTP subsystem on it.
func Dial(ctx context.Context, cfg Config) (*FS, error) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("ssh port %d out of range 1-65535", cfg.Port)
	}
	user, host, err := splitTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	hostKeys, err := newHostKeyChecker(host, cfg.Port, cfg.BatchMode)
	if err != nil {
		return nil, err
	}
	auth, err := authMethods(user, host, cfg.BatchMode)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(host, strconv.Itoa(cfg.Port))
	logger.DebugKV("ssh connect", "addr", addr, "user", user)

	conn, err := connect(dialCtx, addr, &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostKeys.check,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("ssh %s: %w", addr, err)
	}

	sc, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("start sftp on %s: %w", addr, err)
	}

	return &FS{c: sftpClient{sc}, closer: &session{ssh: conn, sftp: sc}}, nil
}

func splitTarget(target string) (user, host string, err error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", "", errors.New("remote target is empty")
	}
	user, host, ok := strings.Cut(target, "@")
	if !ok || user == "" || host == "" {
		return "", "", fmt.Errorf("remote target %q is not user@host", target)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	return user, host, nil
}

// connect dials addr and runs the SSH handshake. Cancelling ctx aborts either step.
func connect(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	conn, err := dialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	c, chans, reqs, err := newClientConn(conn, addr, config)
	close(done)
	if err != nil {
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

type session struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (s *session) Close() error {
	return errors.Join(s.sftp.Close(), s.ssh.Close())
}
