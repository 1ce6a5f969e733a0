// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewUnconfigured(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "")
	if err != nil || c != nil {
		t.Errorf("expected (nil, nil) without configuration, got %v, %v", c, err)
	}
	c, err = New("http://s3.local", "us-east-1", "ak", "sk", "")
	if err != nil || c != nil {
		t.Errorf("expected (nil, nil) without bucket, got %v, %v", c, err)
	}
}

func TestKey(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	key := Key(KindQuestions, "Sheet.XLSX", at)

	re := regexp.MustCompile(`^imports/questions/2026/03/[0-9a-f-]{36}-sheet\.xlsx$`)
	if !re.MatchString(key) {
		t.Errorf("unexpected key %q", key)
	}

	key = Key(KindQuestions, "문제.CSV", at)
	re = regexp.MustCompile(`^imports/questions/2026/03/[0-9a-f-]{36}\.csv$`)
	if !re.MatchString(key) {
		t.Errorf("unexpected key for non-ASCII name %q", key)
	}
	if Key(KindQuestions, "a.csv", at) == Key(KindQuestions, "a.csv", at) {
		t.Error("keys should be unique per upload")
	}
}

func TestArchive(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
		meta   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(b)
		meta = r.Header.Get("X-Amz-Meta-Original-Name")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "us-east-1", "ak", "sk", "archive")
	if err != nil || c == nil {
		t.Fatalf("New: %v, %v", c, err)
	}
	c.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

	key, err := c.Archive(context.Background(), KindCategories, "경로 paths.txt", "text/plain", []byte("A/B\n"))
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if !strings.HasPrefix(key, "imports/categories/2026/01/") || !strings.HasSuffix(key, "-paths.txt") {
		t.Errorf("unexpected key %q", key)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Errorf("method: got %s, want PUT", method)
	}
	if path != "/archive/"+key {
		t.Errorf("path: got %q, want %q", path, "/archive/"+key)
	}
	if meta != "%EA%B2%BD%EB%A1%9C%20paths.txt" {
		t.Errorf("metadata: got %q", meta)
	}
	if !strings.Contains(body, "A/B") {
		t.Errorf("body not uploaded: %q", body)
	}
}
