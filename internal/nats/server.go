package nats

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	portFileName  = "nats.port"
	readyTimeout  = 4 * time.Second
	dialTimeout   = time.Second
	drainTimeout  = 2 * time.Second
	serverTimeout = 5 * time.Second
)

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled
// using the specified data directory for file-based storage. The server
// listens on a random loopback port, recorded in the data directory so
// other roomprefs processes can join it as nodes.
func StartEmbeddedNATS(dataDir string) (*server.Server, int, error) {
	logger.Debug("Starting embedded NATS server with data dir: %s", dataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, 0, fmt.Errorf("creating NATS data dir: %w", err)
	}

	opts := &server.Options{
		JetStream: true,
		StoreDir:  dataDir,
		Host:      "127.0.0.1",
		Port:      server.RANDOM_PORT,
		NoSigs:    true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		return nil, 0, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		logger.Error("NATS server failed to start within %s", readyTimeout)
		ns.Shutdown()
		return nil, 0, errors.New("nats server failed to start within timeout")
	}

	addr, ok := ns.Addr().(*net.TCPAddr)
	if !ok {
		ns.Shutdown()
		return nil, 0, errors.New("nats server has no TCP listener")
	}

	if err := WritePort(dataDir, addr.Port); err != nil {
		ns.Shutdown()
		return nil, 0, err
	}

	logger.Debug("NATS server ready on port %d", addr.Port)
	return ns, addr.Port, nil
}

// WritePort records the listening port of the primary process.
func WritePort(dataDir string, port int) error {
	path := filepath.Join(dataDir, portFileName)
	if err := os.WriteFile(path, []byte(strconv.Itoa(port)), 0644); err != nil {
		return fmt.Errorf("writing port file: %w", err)
	}
	return nil
}

// ReadPort returns the port written by the primary process.
func ReadPort(dataDir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, portFileName))
	if err != nil {
		return 0, fmt.Errorf("reading port file: %w", err)
	}
	port, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || port <= 0 {
		return 0, fmt.Errorf("invalid port file contents %q", string(data))
	}
	return port, nil
}

// RemovePortFile deletes the port file; called by the primary on shutdown.
func RemovePortFile(dataDir string) {
	if err := os.Remove(filepath.Join(dataDir, portFileName)); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove NATS port file: %v", err)
	}
}

// ConnectToPort connects to a NATS server on the loopback interface.
func ConnectToPort(port int) (*nats.Conn, error) {
	url := fmt.Sprintf("nats://127.0.0.1:%d", port)
	nc, err := nats.Connect(url,
		nats.Name("roomprefs"),
		nats.Timeout(dialTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return nc, nil
}

// TryConnectExisting connects to a server started by another roomprefs
// process. Returns nil when there is no port file or nobody answers on it.
func TryConnectExisting(dataDir string) *nats.Conn {
	port, err := ReadPort(dataDir)
	if err != nil {
		return nil
	}
	nc, err := ConnectToPort(port)
	if err != nil {
		logger.Debug("Stale NATS port file (port %d): %v", port, err)
		return nil
	}
	return nc
}

// ConnectInProcess creates an in-process connection to the embedded NATS server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		return nil, err
	}
	return nc, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown drains the connection and then stops the server, bounding
// both steps so a wedged peer can't hang the process on exit.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("NATS drain timed out after %s, forcing close", drainTimeout)
			nc.Close()
		}
	}

	if ns == nil {
		return nil
	}

	ns.Shutdown()
	shutdownDone := make(chan struct{})
	go func() {
		ns.WaitForShutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Debug("NATS server shut down cleanly")
		return nil
	case <-time.After(serverTimeout):
		logger.Error("NATS server shutdown timed out after %s", serverTimeout)
		return errors.New("NATS server shutdown timed out")
	}
}
