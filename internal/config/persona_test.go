package config

import "testing"

func TestLoadPersona(t *testing.T) {
	p, err := LoadPersona()
	if err != nil {
		t.Fatalf("LoadPersona failed: %v", err)
	}

	if p.Model == "" {
		t.Error("model is empty")
	}
	if p.SystemPrompt == "" {
		t.Error("system_prompt is empty")
	}
	if p.Acknowledgement == "" {
		t.Error("acknowledgement is empty")
	}

	g := p.Generation
	if g.Temperature <= 0 || g.Temperature > 2 {
		t.Errorf("temperature = %v out of range", g.Temperature)
	}
	if g.MaxOutputTokens <= 0 {
		t.Errorf("max_output_tokens = %d", g.MaxOutputTokens)
	}
}

func TestMessageLimit(t *testing.T) {
	if got := MessageLimit("premium"); got != PremiumMessageLimit {
		t.Errorf("premium limit = %d, want %d", got, PremiumMessageLimit)
	}
	if got := MessageLimit("free"); got != FreeMessageLimit {
		t.Errorf("free limit = %d, want %d", got, FreeMessageLimit)
	}
	// Unknown tiers get the conservative allowance
	if got := MessageLimit("other"); got != FreeMessageLimit {
		t.Errorf("unknown tier limit = %d, want %d", got, FreeMessageLimit)
	}
}
