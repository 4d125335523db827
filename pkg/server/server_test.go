package server

import "testing"

func TestNewServer(t *testing.T) {
	srv, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if srv == nil {
		t.Fatal("NewServer() returned nil server")
	}
	if srv.srv == nil {
		t.Fatal("NewServer() returned server without MCP server")
	}
}
