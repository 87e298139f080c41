package nats

import (
	"errors"
	"time"

	"github.com/augurlabs/augur/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// StartEmbedded starts an embedded NATS server for in-process use. The
// engine boundary is live request/reply and pub/sub only, so no JetStream
// storage is enabled. Returns the server instance or an error if startup
// fails.
func StartEmbedded() (*server.Server, error) {
	logger.Debug("Starting embedded NATS server")

	opts := &server.Options{
		DontListen: true, // No network ports - in-process only
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		return nil, err
	}

	// Start server in background goroutine
	logger.Debug("Starting NATS server in background")
	go ns.Start()

	// Wait for server to be ready with timeout
	logger.Debug("Waiting for NATS server to be ready...")
	if !ns.ReadyForConnections(4 * time.Second) {
		logger.Error("NATS server failed to start within 4s timeout")
		return nil, errors.New("nats server failed to start within timeout")
	}

	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded NATS
// server. This connection does not use network ports and communicates
// directly with the server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	logger.Debug("Connecting to NATS server in-process")
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		return nil, err
	}
	logger.Debug("Connected to NATS successfully")
	return conn, nil
}

// Connect dials an external NATS server by URL.
func Connect(url string) (*nats.Conn, error) {
	logger.Debug("Connecting to NATS server at %s", url)
	conn, err := nats.Connect(url)
	if err != nil {
		logger.Error("Failed to connect to NATS at %s: %v", url, err)
		return nil, err
	}
	logger.Debug("Connected to NATS successfully")
	return conn, nil
}

// Shutdown gracefully shuts down the NATS connections and server. It first
// drains and closes each connection, then shuts down the server with a
// timeout to allow in-flight operations to complete. Either argument may
// be nil.
func Shutdown(ns *server.Server, conns ...*nats.Conn) error {
	logger.Debug("Starting NATS shutdown")

	for _, nc := range conns {
		if nc == nil {
			continue
		}
		logger.Debug("Draining NATS connection")
		// Drain waits for in-flight messages and subscription callbacks to
		// complete before closing. Bounded so shutdown cannot hang.
		drainDone := make(chan error, 1)
		go func(nc *nats.Conn) {
			drainDone <- nc.Drain()
		}(nc)

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			} else {
				logger.Debug("NATS connection drained successfully")
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	if ns != nil {
		logger.Debug("Shutting down NATS server")
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
			logger.Debug("NATS server shut down cleanly")
		case <-time.After(5 * time.Second):
			// No force-stop API, but at least we don't hang forever.
			logger.Error("NATS server shutdown timed out after 5s")
			return errors.New("NATS server shutdown timed out")
		}
	}

	logger.Debug("NATS shutdown complete")
	return nil
}
