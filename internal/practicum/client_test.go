package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *observer.ObservedLogs) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	core, logs := observer.New(zapcore.DebugLevel)
	return New(srv.URL+"/api/user_api/homework_statuses/", "secret", time.Second, zap.New(core)), logs
}

func TestGetAPIAnswer_SendsAuthAndCursor(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "OAuth secret" {
			t.Errorf("authorization header: got %q", got)
		}
		if got := r.URL.Query().Get("from_date"); got != "1700000000" {
			t.Errorf("from_date: got %q", got)
		}
		if r.URL.Path != "/api/user_api/homework_statuses/" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"hw1","status":"approved","id":5}],"current_date":1000}`))
	})

	resp, err := c.GetAPIAnswer(context.Background(), 1700000000)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp["current_date"] != json.Number("1000") {
		t.Fatalf("current_date should be kept as json.Number, got %#v", resp["current_date"])
	}
	list, ok := resp["homeworks"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("homeworks not returned unmodified: %#v", resp["homeworks"])
	}
}

func TestGetAPIAnswer_ZeroCursorMeansNow(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from_date"); got != "1234" {
			t.Errorf("from_date: got %q", got)
		}
		_, _ = w.Write([]byte(`{"homeworks":[]}`))
	})
	c.now = func() time.Time { return time.Unix(1234, 0) }

	if _, err := c.GetAPIAnswer(context.Background(), 0); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestGetAPIAnswer_Non200(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"homeworks":[]}`))
	})

	resp, err := c.GetAPIAnswer(context.Background(), 1)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("want ErrHTTPStatus, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("want StatusError with 500, got %#v", err)
	}
	if resp != nil {
		t.Fatalf("failed call must not return a response")
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Fatalf("want one error log, got %d", logs.Len())
	}
}

func TestGetAPIAnswer_Transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(addr, "secret", time.Second, zap.NewNop())
	_, err := c.GetAPIAnswer(context.Background(), 1)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("want ErrTransport, got %v", err)
	}
}

func TestGetAPIAnswer_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := New(srv.URL, "secret", 50*time.Millisecond, zap.NewNop())
	_, err := c.GetAPIAnswer(context.Background(), 1)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("want ErrTransport on timeout, got %v", err)
	}
}

func TestGetAPIAnswer_MalformedBody(t *testing.T) {
	for _, body := range []string{"", "not json", "[1,2]", "null"} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.GetAPIAnswer(context.Background(), 1)
		if !errors.Is(err, ErrMalformedBody) {
			t.Fatalf("body %q: want ErrMalformedBody, got %v", body, err)
		}
	}
}
