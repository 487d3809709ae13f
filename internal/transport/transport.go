// Package transport implements the reference Executor: a net/http-backed
// transport with per-request timeouts, a TLS verification toggle,
// response-capture gating, and error classification into a fixed taxonomy.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bmcszk/go-httprunner/internal/model"
)

// Default connect/read timeouts, per original_source/src/core/src/runner/executor.rs.
const (
	defaultConnectTimeoutMs = 30000
	defaultReadTimeoutMs    = 60000
)

// ErrorClass is the taxonomy a transport failure is classified into.
type ErrorClass string

const (
	ErrorClassSSL               ErrorClass = "SSL"
	ErrorClassDNS               ErrorClass = "DNS"
	ErrorClassConnectionRefused ErrorClass = "ConnectionRefused"
	ErrorClassTimeout           ErrorClass = "Timeout"
	ErrorClassOther             ErrorClass = "Other"
)

// HTTPTransport is the reference Transport implementation.
type HTTPTransport struct{}

// New returns a ready-to-use HTTPTransport.
func New() *HTTPTransport { return &HTTPTransport{} }

// Execute satisfies executor.Transport.
func (t *HTTPTransport) Execute(ctx context.Context, req model.HttpRequest, verbose, insecure bool) model.HttpResult {
	start := time.Now()

	connectTimeout := time.Duration(defaultConnectTimeoutMs) * time.Millisecond
	if req.HasConnectionTimeout {
		connectTimeout = time.Duration(req.ConnectionTimeoutMs) * time.Millisecond
	}
	readTimeout := time.Duration(defaultReadTimeoutMs) * time.Millisecond
	if req.HasTimeout {
		readTimeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	client := &http.Client{
		Timeout: readTimeout,
		Transport: &http.Transport{
			DialContext:     dialer.DialContext,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}, //nolint:gosec
		},
	}

	var body io.Reader
	if req.HasBody {
		body = bytes.NewReader([]byte(req.Body))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return buildErrorResult(start, err)
	}
	for _, h := range req.Headers {
		httpReq.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return buildErrorResult(start, err)
	}
	defer resp.Body.Close()

	capture := verbose || req.Name != "" || len(req.Assertions) > 0
	result := model.HttpResult{
		StatusCode: resp.StatusCode,
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if capture {
		headers := make(map[string]string, len(resp.Header))
		for k, v := range resp.Header {
			headers[k] = strings.Join(v, ", ")
		}
		result.HasResponseHeaders = true
		result.ResponseHeaders = headers

		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			result.HasResponseBody = true
			result.ResponseBody = string(data)
		}
	}

	return result
}

func buildErrorResult(start time.Time, err error) model.HttpResult {
	class := classifyError(err)
	return model.HttpResult{
		StatusCode:   0,
		Success:      false,
		HasError:     true,
		ErrorMessage: string(class) + ": " + err.Error(),
		DurationMs:   time.Since(start).Milliseconds(),
	}
}

// classifyError sorts a transport error into the ErrorClass taxonomy,
// preferring typed checks (net.Error, x509, DNS errors) over string matching.
func classifyError(err error) ErrorClass {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorClassDNS
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuthority) || errors.As(err, &hostnameErr) {
		return ErrorClassSSL
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if strings.Contains(strings.ToLower(opErr.Err.Error()), "refused") {
			return ErrorClassConnectionRefused
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "connection refused") {
		return ErrorClassConnectionRefused
	}

	return ErrorClassOther
}
