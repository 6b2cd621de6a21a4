// internal/detection/detector_test.go
package detection

import (
	"context"
	"testing"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/internal/openrouter"
)

type stubQuerier struct {
	result    *openrouter.Result
	calls     int
	prompts   []string
	platforms []models.Platform
}

func (s *stubQuerier) Query(ctx context.Context, prompt string, platform models.Platform) *openrouter.Result {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.platforms = append(s.platforms, platform)
	return s.result
}

func queryText(text string) *openrouter.Result {
	return &openrouter.Result{Success: true, ResponseText: &text}
}

func queryFailure(message string) *openrouter.Result {
	return &openrouter.Result{Success: false, ErrorMessage: &message}
}

func TestNormalizeBusinessName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Reliable Rooter", "reliable rooter"},
		{"llc suffix", "Acme Plumbing LLC", "acme plumbing"},
		{"comma before suffix survives", "Acme Plumbing, LLC", "acme plumbing,"},
		{"inc with period", "Joe's Pipes Inc.", "joe's pipes"},
		{"corp suffix", "Big Fix Corp", "big fix"},
		{"corporation suffix", "Big Fix Corporation", "big fix"},
		{"company suffix", "Smith Plumbing Company", "smith plumbing"},
		{"ltd suffix", "Tap Masters Ltd", "tap masters"},
		{"co suffix", "Drain Kings Co.", "drain kings"},
		{"surrounding whitespace", "  Reliable Rooter  ", "reliable rooter"},
		{"mixed case suffix", "Reliable Rooter lLc", "reliable rooter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBusinessName(tt.in); got != tt.want {
				t.Errorf("NormalizeBusinessName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectDirectMatchSkipsVerification(t *testing.T) {
	querier := &stubQuerier{result: queryText("YES")}
	detector := NewDetector(querier)

	det := detector.Detect(context.Background(), "Reliable Rooter LLC",
		"For drain work I would call Reliable Rooter, they are quick.", models.PlatformChatGPT)

	if !det.Appeared {
		t.Error("expected direct string match to appear")
	}
	if querier.calls != 0 {
		t.Errorf("expected no verification calls on direct match, got %d", querier.calls)
	}
}

func TestDetectFuzzyWordMatch(t *testing.T) {
	querier := &stubQuerier{result: queryFailure("should not be called")}
	detector := NewDetector(querier)

	// Name words separated by filler but within the proximity window
	det := detector.Detect(context.Background(), "Reliable Rooter",
		"They are a reliable outfit, the Rooter team on Main St.", models.PlatformPerplexity)

	if !det.Appeared {
		t.Error("expected fuzzy word match to appear")
	}
	if querier.calls != 0 {
		t.Errorf("expected no verification calls, got %d", querier.calls)
	}
}

func TestDetectFuzzyMatchRejectsDistantWords(t *testing.T) {
	querier := &stubQuerier{result: queryText("NO")}
	detector := NewDetector(querier)

	response := "Reliable options are everywhere in this city and you will find plenty. " +
		"Much later in this response we finally talk about rooter services in general."
	det := detector.Detect(context.Background(), "Reliable Rooter", response, models.PlatformChatGPT)

	if det.Appeared {
		t.Error("expected distant words to fall through to verification and miss")
	}
	if querier.calls != 1 {
		t.Errorf("expected 1 verification call, got %d", querier.calls)
	}
}

func TestDetectVerificationConfirms(t *testing.T) {
	querier := &stubQuerier{result: queryText("YES, the business is mentioned.")}
	detector := NewDetector(querier)

	det := detector.Detect(context.Background(), "Reliable Rooter",
		"The R.R. crew on Main St does excellent drain work.", models.PlatformPerplexity)

	if !det.Appeared {
		t.Error("expected AI-verified mention to appear")
	}
	if querier.calls != 1 {
		t.Errorf("expected 1 verification call, got %d", querier.calls)
	}
	// Verification always routes through the first platform
	if querier.platforms[0] != models.PlatformChatGPT {
		t.Errorf("verification platform = %q", querier.platforms[0])
	}
}

func TestDetectVerificationDenies(t *testing.T) {
	querier := &stubQuerier{result: queryText("NO")}
	detector := NewDetector(querier)

	det := detector.Detect(context.Background(), "Reliable Rooter",
		"Some other plumbing shop is the best around.", models.PlatformChatGPT)

	if det.Appeared {
		t.Error("expected denial to report not appeared")
	}
	if det.Position != nil {
		t.Errorf("expected nil position, got %d", *det.Position)
	}
}

func TestDetectVerificationFailureMeansNotAppeared(t *testing.T) {
	querier := &stubQuerier{result: queryFailure("Failed after 3 attempts: HTTP 503")}
	detector := NewDetector(querier)

	det := detector.Detect(context.Background(), "Reliable Rooter",
		"Some other plumbing shop is the best around.", models.PlatformChatGPT)

	if det.Appeared {
		t.Error("expected failed verification to report not appeared")
	}
}

func TestDetectPositionInRankedList(t *testing.T) {
	querier := &stubQuerier{}
	detector := NewDetector(querier)

	response := "1. Austin Plumbing Pros - fast emergency service.\n" +
		"2. Reliable Rooter - great reviews for drain work.\n" +
		"3. Hill Country Pipeworks - good for remodels."
	det := detector.Detect(context.Background(), "Reliable Rooter", response, models.PlatformChatGPT)

	if !det.Appeared {
		t.Fatal("expected mention in ranked list")
	}
	if det.Position == nil || *det.Position != 2 {
		t.Errorf("position = %v, want 2", det.Position)
	}
}

func TestDetectExplicitNumberOverridesCount(t *testing.T) {
	querier := &stubQuerier{}
	detector := NewDetector(querier)

	response := "Great question!\n5) Reliable Rooter offers fair pricing"
	det := detector.Detect(context.Background(), "Reliable Rooter", response, models.PlatformChatGPT)

	if !det.Appeared {
		t.Fatal("expected mention")
	}
	if det.Position == nil || *det.Position != 5 {
		t.Errorf("position = %v, want explicit 5", det.Position)
	}
}

func TestDetectPositionWithOrdinals(t *testing.T) {
	querier := &stubQuerier{}
	detector := NewDetector(querier)

	response := "Sure!\nFirst, Austin Plumbing Pros.\nSecond, Reliable Rooter."
	det := detector.Detect(context.Background(), "Reliable Rooter", response, models.PlatformChatGPT)

	if !det.Appeared {
		t.Fatal("expected mention")
	}
	if det.Position == nil || *det.Position != 2 {
		t.Errorf("position = %v, want 2", det.Position)
	}
}

func TestDetectPositionWithBullets(t *testing.T) {
	querier := &stubQuerier{}
	detector := NewDetector(querier)

	response := "Sure thing!\n- Austin Pros. Also worth a call:\n- Reliable Rooter."
	det := detector.Detect(context.Background(), "Reliable Rooter", response, models.PlatformChatGPT)

	if !det.Appeared {
		t.Fatal("expected mention")
	}
	if det.Position == nil || *det.Position != 2 {
		t.Errorf("position = %v, want 2", det.Position)
	}
}

func TestDetectFirstSentenceMentionIsPositionOne(t *testing.T) {
	querier := &stubQuerier{}
	detector := NewDetector(querier)

	det := detector.Detect(context.Background(), "Reliable Rooter",
		"Reliable Rooter is the obvious first call. Others exist too.", models.PlatformChatGPT)

	if !det.Appeared {
		t.Fatal("expected mention")
	}
	if det.Position == nil || *det.Position != 1 {
		t.Errorf("position = %v, want 1", det.Position)
	}
}

func TestDetectAppearedWithoutSentenceLevelMatch(t *testing.T) {
	querier := &stubQuerier{}
	detector := NewDetector(querier)

	// Fuzzy match spans sentences, so no single sentence carries the full name
	det := detector.Detect(context.Background(), "Reliable Rooter",
		"Reliable service matters here. Rooter companies vary a lot.", models.PlatformChatGPT)

	if !det.Appeared {
		t.Fatal("expected fuzzy mention")
	}
	if det.Position != nil {
		t.Errorf("expected nil position without a sentence-level match, got %d", *det.Position)
	}
}
