package fetch

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/tarmac-project/fetchmock"
	"github.com/tarmac-project/fetchmock/hostmock"
	"github.com/tarmac-project/fetchmock/logging"
)

func BenchmarkClient(b *testing.B) {
	mock, err := hostmock.New(routed(hostmock.Config{Response: okResponse}))
	if err != nil {
		b.Fatalf("hostmock: %v", err)
	}
	c, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		b.Fatalf("client: %v", err)
	}

	small := []byte(`{"data":"test"}`)
	large := bytes.Repeat([]byte("a"), 64*1024)

	tt := []struct {
		name        string
		method      string
		payload     []byte
		headerCount int
	}{
		{"GET/no-body", http.MethodGet, nil, 0},
		{"GET/no-body/50hdrs", http.MethodGet, nil, 50},
		{"POST/small", http.MethodPost, small, 0},
		{"POST/large/100hdrs", http.MethodPost, large, 100},
		{"PATCH/small/25hdrs", http.MethodPatch, small, 25},
	}

	for _, tc := range tt {
		b.Run(tc.name, func(b *testing.B) {
			header := make(http.Header, tc.headerCount)
			for i := range tc.headerCount {
				header.Set("X-Bench-H-"+strconv.Itoa(i), "v")
			}
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				init := &Init{Method: tc.method, Header: header}
				if tc.payload != nil {
					init.Body = bytes.NewReader(tc.payload)
				}
				r, err := c.Fetch("http://example.com/1", init)
				if err != nil {
					b.Fatalf("%s failed: %v", tc.name, err)
				}
				if r.Body != nil {
					_, _ = io.Copy(io.Discard, r.Body)
					_ = r.Body.Close()
				}
			}
		})
	}
}

func BenchmarkRegistryRoundTrip(b *testing.B) {
	reg, err := fetchmock.New(fetchmock.Config{Logger: logging.NewRecorder()})
	if err != nil {
		b.Fatalf("registry: %v", err)
	}
	if err := reg.On(http.MethodGet, "https://api.example.com/items/*").ReturnJSON(http.StatusOK, map[string]int{"id": 1}); err != nil {
		b.Fatalf("register: %v", err)
	}
	c, err := New(Config{HostCall: hostmock.ForRegistry(reg).HostCall})
	if err != nil {
		b.Fatalf("client: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		if i%1024 == 0 {
			b.StopTimer()
			reg.Reset()
			_ = reg.On(http.MethodGet, "https://api.example.com/items/*").ReturnJSON(http.StatusOK, map[string]int{"id": 1})
			b.StartTimer()
		}
		if _, err := c.Get("https://api.example.com/items/" + strconv.Itoa(i)); err != nil {
			b.Fatalf("get: %v", err)
		}
	}
}
