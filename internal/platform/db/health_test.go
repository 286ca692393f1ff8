package db

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestCheck_NilPoolIsHealthyMemoryStore(t *testing.T) {
	h := Check(context.Background(), nil)

	if h.Store != StoreMemory {
		t.Errorf("Store = %q, want %q", h.Store, StoreMemory)
	}
	if !h.Healthy {
		t.Error("in-memory store must always report healthy")
	}
	if h.Pool != nil {
		t.Errorf("Pool = %+v, want nil without a database", h.Pool)
	}
	if h.Error != "" {
		t.Errorf("Error = %q, want empty", h.Error)
	}
}

func TestHealth_OmitsPoolAndErrorWhenAbsent(t *testing.T) {
	data, err := json.Marshal(Check(context.Background(), nil))
	if err != nil {
		t.Fatalf("marshal health: %v", err)
	}

	s := string(data)
	if strings.Contains(s, "pool") {
		t.Errorf("payload %s should omit pool for the memory store", s)
	}
	if strings.Contains(s, "error") {
		t.Errorf("payload %s should omit error when healthy", s)
	}
	if !strings.Contains(s, `"store":"memory"`) {
		t.Errorf("payload %s missing store kind", s)
	}
}
