package clients

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/ajitpratap0/tributary/pkg/logger"
)

// Session is a reusable HTTP connection and header holder. A connector owns
// one Session for its entire lifetime; default headers set on the session
// (auth headers in particular) are applied to every outgoing request.
// Close releases the underlying connections exactly once.
type Session struct {
	client    *http.Client
	transport *http.Transport
	headers   http.Header
	logger    *zap.Logger

	closed  bool
	closeMu sync.Mutex
}

// NewSession creates a session whose requests are bounded by timeout.
func NewSession(timeout time.Duration) *Session {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	log := logger.With(zap.String("component", "session"))

	if err := http2.ConfigureTransport(transport); err != nil {
		log.Warn("failed to configure HTTP/2", zap.Error(err))
	}

	return &Session{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		transport: transport,
		headers:   make(http.Header),
		logger:    log,
	}
}

// SetHeader sets a default header applied to every request on this session
func (s *Session) SetHeader(key, value string) {
	s.headers.Set(key, value)
}

// Do executes a request, applying the session's default headers first.
// Per-request headers win over session defaults.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	for key, values := range s.headers {
		if req.Header.Get(key) == "" {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "Tributary/1.0")
	}

	return s.client.Do(req)
}

// Close releases idle connections. Safe to call more than once; only the
// first call does the work.
func (s *Session) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return nil
	}

	s.transport.CloseIdleConnections()
	s.closed = true
	s.logger.Debug("session closed")

	return nil
}
