package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil || s.engine == nil || s.picker == nil {
		t.Fatal("New() did not initialize its components")
	}
	if s.cache.Capacity() != DefaultConfig().CacheSize {
		t.Errorf("cache capacity = %d, want %d", s.cache.Capacity(), DefaultConfig().CacheSize)
	}
}

func TestNewWithConfig_CacheSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 2
	if got := NewWithConfig(cfg, nil).cache.Capacity(); got != 2 {
		t.Errorf("cache capacity = %d, want 2", got)
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Methods(t *testing.T) {
	s := New()
	ctx := context.Background()

	resp := s.handleRequest(ctx, &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("initialize failed: %+v", resp)
	}
	result := resp.Result.(map[string]interface{})
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "paint-palette-mcp" {
		t.Errorf("serverInfo name = %v", info["name"])
	}

	if resp := s.handleRequest(ctx, &MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notifications/initialized produced a response: %+v", resp)
	}

	resp = s.handleRequest(ctx, &MCPRequest{JSONRPC: "2.0", ID: 2, Method: "ping"})
	if resp == nil || resp.Error != nil || resp.ID != 2 {
		t.Errorf("ping failed: %+v", resp)
	}

	resp = s.handleRequest(ctx, &MCPRequest{JSONRPC: "2.0", ID: 3, Method: "resources/list"})
	if resp == nil || resp.Error == nil || resp.Error.Code != -32601 {
		t.Errorf("unknown method: got %+v, want -32601", resp)
	}
}

func TestServe(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t)

	callParams, _ := json.Marshal(map[string]interface{}{
		"name":      "palette_extract",
		"arguments": map[string]interface{}{"path": imgPath},
	})
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`this is not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		fmt.Sprintf(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":%s}`, callParams),
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":5,"method":"nope"}`,
	}, "\n") + "\n"

	var out strings.Builder
	if err := s.Serve(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	// Responses may arrive in any order; index them by id.
	byID := make(map[float64]MCPResponse)
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		id, ok := resp.ID.(float64)
		if !ok {
			t.Fatalf("response without numeric id: %s", scanner.Text())
		}
		byID[id] = resp
	}

	if len(byID) != 5 {
		t.Fatalf("got %d responses, want 5", len(byID))
	}
	for _, id := range []float64{1, 2, 3, 4} {
		if byID[id].Error != nil {
			t.Errorf("response %v has error %+v", id, byID[id].Error)
		}
	}
	if byID[5].Error == nil || byID[5].Error.Code != -32601 {
		t.Errorf("response 5 = %+v, want method not found", byID[5])
	}
}

func TestCancelRequest(t *testing.T) {
	s := New()

	ctx, release := s.track(context.Background(), float64(7))
	defer release()

	s.cancelRequest(json.RawMessage(`{"requestId":7,"reason":"user aborted"}`))
	if ctx.Err() == nil {
		t.Error("request context was not canceled")
	}

	// Unknown and malformed cancellations are ignored.
	s.cancelRequest(json.RawMessage(`{"requestId":99}`))
	s.cancelRequest(json.RawMessage(`{`))
}

func TestTrack_ReleaseForgetsRequest(t *testing.T) {
	s := New()
	_, release := s.track(context.Background(), "abc")
	release()

	s.mu.Lock()
	n := len(s.inflight)
	s.mu.Unlock()
	if n != 0 {
		t.Errorf("inflight = %d after release, want 0", n)
	}
}
