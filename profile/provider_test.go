package profile

import (
	"context"
	"testing"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/store"
)

func TestStoreProviderGetSignal(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	ctx := context.Background()
	raw := []byte(`{
		"PreferredCategories": {"3": 0.8, "7": 0.4},
		"PreferredTags": {"ai": 0.9},
		"BlockedSources": ["tabloid"],
		"DiversityPreference": 0.5,
		"QualityThreshold": 0.3,
		"Confidence": 0.7
	}`)
	if err := kv.Set(ctx, "profile:user:1", raw); err != nil {
		t.Fatal(err)
	}

	p := &StoreProvider{Store: kv}
	signal, err := p.GetSignal(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if signal == nil {
		t.Fatal("expected signal")
	}
	if signal.UserID != 1 {
		t.Errorf("user id = %d", signal.UserID)
	}
	if signal.Warmth != core.WarmthWarm {
		t.Errorf("confidence 0.7 must classify as warm, got %q", signal.Warmth)
	}
	if signal.CategoryWeight(3) != 0.8 {
		t.Errorf("category weight = %v", signal.CategoryWeight(3))
	}
	if !signal.IsSourceBlocked("tabloid") {
		t.Error("blocked source lost")
	}
}

func TestStoreProviderColdStartThreshold(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	ctx := context.Background()
	_ = kv.Set(ctx, "profile:user:2", []byte(`{"Confidence": 0.2}`))

	p := &StoreProvider{Store: kv}
	signal, err := p.GetSignal(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if signal.Warmth != core.WarmthCold {
		t.Errorf("confidence 0.2 must classify as cold start, got %q", signal.Warmth)
	}
	if !signal.IsColdStart() {
		t.Error("IsColdStart() must be true")
	}
}

func TestStoreProviderMissingProfile(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	p := &StoreProvider{Store: kv}
	signal, err := p.GetSignal(context.Background(), 999)
	if err != nil {
		t.Fatalf("missing profile is not an error: %v", err)
	}
	if signal != nil {
		t.Fatal("missing profile must return nil signal")
	}
}

func TestStoreProviderMalformedProfile(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	ctx := context.Background()
	_ = kv.Set(ctx, "profile:user:3", []byte("{broken"))

	p := &StoreProvider{Store: kv}
	_, err := p.GetSignal(ctx, 3)
	if err == nil {
		t.Fatal("expected error for malformed profile")
	}
	domainErr := core.GetDomainError(err)
	if domainErr == nil || domainErr.Module != core.ModuleProfile {
		t.Errorf("expected profile domain error, got %v", err)
	}
}

func TestWarmthOf(t *testing.T) {
	tests := []struct {
		confidence float64
		threshold  float64
		want       core.Warmth
	}{
		{0.0, 0.3, core.WarmthCold},
		{0.29, 0.3, core.WarmthCold},
		{0.3, 0.3, core.WarmthWarm},
		{1.0, 0.3, core.WarmthWarm},
		{0.5, 0.6, core.WarmthCold},
	}
	for _, tt := range tests {
		if got := WarmthOf(tt.confidence, tt.threshold); got != tt.want {
			t.Errorf("WarmthOf(%v, %v) = %q, want %q", tt.confidence, tt.threshold, got, tt.want)
		}
	}
}
