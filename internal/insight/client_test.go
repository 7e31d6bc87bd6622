package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSummarize(t *testing.T) {
	var gotAuth string
	var gotReq SummaryRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]string{"text": "Nice week. Protect your mornings."})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	text, err := c.Summarize(context.Background(), SummaryRequest{
		Period:       "week of 2026-08-24",
		FocusMinutes: 420,
		Sessions:     17,
	})
	if err != nil {
		t.Fatal(err)
	}
	if text != "Nice week. Protect your mornings." {
		t.Errorf("text = %q", text)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReq.FocusMinutes != 420 || gotReq.Sessions != 17 {
		t.Errorf("payload = %+v", gotReq)
	}
}

func TestSummarizeErrors(t *testing.T) {
	t.Run("no endpoint configured", func(t *testing.T) {
		c := New("", "")
		if _, err := c.Summarize(context.Background(), SummaryRequest{}); err == nil {
			t.Fatal("want error for empty base URL")
		}
	})

	t.Run("http failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := New(srv.URL, "")
		if _, err := c.Summarize(context.Background(), SummaryRequest{}); err == nil {
			t.Fatal("want error on 503")
		}
	})

	t.Run("application error in body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
		}))
		defer srv.Close()

		c := New(srv.URL, "")
		if _, err := c.Summarize(context.Background(), SummaryRequest{}); err == nil {
			t.Fatal("want error when body carries an error field")
		}
	})
}

func TestSummarizeOrApology(t *testing.T) {
	// Failure path: broken endpoint degrades to the apology, never an error.
	c := New("", "")
	if got := c.SummarizeOrApology(context.Background(), SummaryRequest{}); got != Apology {
		t.Errorf("got %q, want the apology", got)
	}

	// Empty text also degrades.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv.Close()
	c = New(srv.URL, "")
	if got := c.SummarizeOrApology(context.Background(), SummaryRequest{}); got != Apology {
		t.Errorf("got %q, want the apology for empty text", got)
	}

	// Happy path passes the text through.
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "keep going"})
	}))
	defer srv2.Close()
	c = New(srv2.URL, "")
	if got := c.SummarizeOrApology(context.Background(), SummaryRequest{}); got != "keep going" {
		t.Errorf("got %q, want the summary text", got)
	}
}
