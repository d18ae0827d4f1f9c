package netutil

import (
	"errors"
	"net"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	if ShouldRetry(nil) {
		t.Error("nil error is not retryable")
	}
	if ShouldRetry(errors.New("bad request")) {
		t.Error("generic error is not retryable")
	}
	if !ShouldRetry(timeoutErr{}) {
		t.Error("timeout must be retryable")
	}
	if !ShouldRetry(&net.OpError{Op: "dial", Err: errors.New("refused")}) {
		t.Error("dial failure must be retryable")
	}
	if !ShouldRetry(&url.Error{Op: "Post", URL: "https://example.org", Err: timeoutErr{}}) {
		t.Error("wrapped timeout must be retryable")
	}
}
