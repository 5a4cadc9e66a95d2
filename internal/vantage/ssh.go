package vantage

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"routeanalyzer/internal/model"
)

// dialTimeout bounds the initial TCP+handshake for a vantage connection.
const dialTimeout = 10 * time.Second

// SSHPoint is a Point backed by one reusable golang.org/x/crypto/ssh client
// connection per vantage. Ping calls are serialized through pingMu — a
// single-writer worker, since the remote shell a given vantage represents
// is not safe to drive from multiple goroutines at once — while the
// connection itself is dialed lazily and redialed if a command reports a
// transport failure.
type SSHPoint struct {
	name   string
	addr   string
	sshCfg *ssh.ClientConfig
	logger zerolog.Logger

	pingMu sync.Mutex

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHPoint builds an SSHPoint for a vantage reachable at addr (host:port,
// ":22" appended if addr carries no port) authenticating as user with the
// private key at keyPath.
func NewSSHPoint(name, addr, user, keyPath string, logger zerolog.Logger) (*SSHPoint, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read private key: %v", ErrTransport, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", ErrTransport, err)
	}

	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	return &SSHPoint{
		name: name,
		addr: addr,
		sshCfg: &ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         dialTimeout,
		},
		logger: logger.With().Str("component", "vantage").Str("vantage", name).Logger(),
	}, nil
}

// Name returns the vantage's configured tag.
func (p *SSHPoint) Name() string {
	return p.name
}

// connection returns the live client, dialing one if none is held yet.
func (p *SSHPoint) connection() (*ssh.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	client, err := ssh.Dial("tcp", p.addr, p.sshCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrTransport, p.addr, err)
	}
	p.client = client
	return client, nil
}

// invalidate drops the held connection after a transport failure so the
// next Ping call redials.
func (p *SSHPoint) invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

// Ping runs `ping -c{count} -q {host}` over a fresh session on the
// vantage's shared connection and parses the summary line.
func (p *SSHPoint) Ping(ctx context.Context, host string, count int) (*model.Measurement, error) {
	p.pingMu.Lock()
	defer p.pingMu.Unlock()

	client, err := p.connection()
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession()
	if err != nil {
		p.invalidate()
		return nil, fmt.Errorf("%w: new session: %v", ErrTransport, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	cmd := fmt.Sprintf("ping -c%d -q %s", count, host)

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return nil, fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
	case err := <-done:
		if err != nil {
			p.logger.Debug().Err(err).Str("host", host).Str("stderr", stderr.String()).Msg("ping command failed")
			return nil, fmt.Errorf("%w: %s: %v", ErrCommand, cmd, err)
		}
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: empty output for %s", ErrCommand, cmd)
	}

	return parsePingSummary(stdout.String())
}

// Close releases the vantage's remote shell.
func (p *SSHPoint) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}
