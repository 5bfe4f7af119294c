package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordFromPipe(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("secret123\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hash-password", "--cost", "4"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")); err != nil {
		t.Fatalf("printed hash does not match password: %v", err)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hash-password", "--cost", "4"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestWaitReadyPollsUntilReady(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"wait-ready", "--url", srv.URL, "--timeout", "5s", "--interval", "10ms"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 probes, got %d", calls.Load())
	}
	if !strings.Contains(out.String(), "ready") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestWaitReadyTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	start := time.Now()
	err := waitReady(context.Background(), srv.URL, 50*time.Millisecond, 10*time.Millisecond)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("waitReady took too long: %s", time.Since(start))
	}
}

func TestServeRejectsBadFlag(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--log-level", "loud"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}
