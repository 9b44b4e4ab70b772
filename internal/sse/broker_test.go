package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/caselink-za/caselink/internal/models"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "cache.cleared", Data: map[string]string{"reason": "manual"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: cache.cleared") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"reason":"manual"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishIndexed(t *testing.T) {
	b := NewBroker(time.Hour) // long throttle: only the first burst goes out
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	records := make([]models.CaseRecord, 12)
	for i := range records {
		records[i] = models.CaseRecord{Title: "t", URL: "u", Court: "c"}
	}
	b.PublishIndexed(records)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: cases.indexed") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"count":12`) {
			t.Errorf("missing count in %q", s)
		}
		// Sample capped below the full record count.
		if n := strings.Count(s, `"title"`); n != indexedSampleMax {
			t.Errorf("sample size = %d, want %d", n, indexedSampleMax)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for cases.indexed")
	}

	// A second burst within the throttle window is dropped.
	b.PublishIndexed(records)
	select {
	case msg := <-ch:
		t.Errorf("throttled event delivered: %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishIndexedEmptyIsNoop(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishIndexed(nil)
	select {
	case msg := <-ch:
		t.Errorf("unexpected event: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()

	srv := httptest.NewServer(b)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	// Wait for the subscription to land before publishing.
	deadline := time.Now().Add(time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	b.PublishIndexed([]models.CaseRecord{{Title: "Streamed case", URL: "u", Court: "c"}})

	buf := make([]byte, 1024)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(buf[:n]), "Streamed case") {
		t.Errorf("stream payload: %q", buf[:n])
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := NewBroker(time.Millisecond)
	b.Close()
	b.Close()
	if b.ClientCount() != 0 {
		t.Error("closed broker should report 0 clients")
	}
}
