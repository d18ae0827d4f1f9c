package sender

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestEnqueueRunsJob(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	defer d.Close()

	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "test", func() error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	d.Close()
	if err := d.Enqueue(context.Background(), "test", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("err = %v, want ErrQueueClosed", err)
	}
}

func TestQueueFull(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	defer d.Close()

	var block sync.WaitGroup
	block.Add(1)
	started := make(chan struct{})
	d.Enqueue(context.Background(), "blocker", func() error {
		close(started)
		block.Wait()
		return nil
	})
	<-started
	d.Enqueue(context.Background(), "filler", func() error { return nil })

	err := d.Enqueue(context.Background(), "overflow", func() error { return nil })
	block.Done()
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("err = %v, want ErrQueueFull", err)
	}
}

func TestNonRetryableFailureCounted(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	defer d.Close()

	ran := make(chan struct{}, 8)
	d.Enqueue(context.Background(), "fail", func() error {
		ran <- struct{}{}
		return errors.New("permanent")
	})

	<-ran
	deadline := time.Now().Add(2 * time.Second)
	for d.ErrorCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("failure never counted")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(ran) != 0 {
		t.Errorf("non-retryable error retried %d extra times", len(ran))
	}
}

func TestSanitizeError(t *testing.T) {
	err := errors.New("post https://api.telegram.org/bot12345:AAxx_yy-zz/sendMessage: timeout")
	got := SanitizeError(err)
	if got != "post https://api.telegram.org/bot<redacted>/sendMessage: timeout" {
		t.Errorf("sanitized = %q", got)
	}
	if SanitizeError(nil) != "" {
		t.Error("nil error must sanitize to empty string")
	}
}
