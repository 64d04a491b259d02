package translate_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"subburn/internal/captions"
	"subburn/internal/translate"
)

type fakeTranslator struct {
	fail  func(text string) bool
	calls atomic.Int64
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	f.calls.Add(1)
	if f.fail != nil && f.fail(text) {
		return "", errors.New("service unavailable")
	}
	return strings.ToUpper(text), nil
}

func TestTranslateOrOriginalSuccess(t *testing.T) {
	ic := translate.NewInterceptor(&fakeTranslator{}, nil, translate.InterceptorOptions{MaxConcurrent: 1})
	got, ok := ic.TranslateOrOriginal(context.Background(), "hello", "en")
	if !ok || got != "HELLO" {
		t.Fatalf("got %q, applied=%v", got, ok)
	}
}

func TestTranslateOrOriginalFallsBack(t *testing.T) {
	ft := &fakeTranslator{fail: func(string) bool { return true }}
	ic := translate.NewInterceptor(ft, nil, translate.InterceptorOptions{MaxConcurrent: 1})
	got, ok := ic.TranslateOrOriginal(context.Background(), "hello", "en")
	if ok {
		t.Fatal("translation should not report success")
	}
	if got != "hello" {
		t.Fatalf("fallback lost original text: %q", got)
	}
}

func TestTranslateCuesPreservesOrderAndTiming(t *testing.T) {
	cues := []captions.Cue{
		{Index: 1, Start: 0, End: 1, Text: "one"},
		{Index: 2, Start: 1, End: 2, Text: "two"},
		{Index: 3, Start: 2, End: 3, Text: "three"},
	}
	ic := translate.NewInterceptor(&fakeTranslator{}, nil, translate.InterceptorOptions{MaxConcurrent: 3})
	got := ic.TranslateCues(context.Background(), cues, "en")
	if len(got) != len(cues) {
		t.Fatalf("cue count changed: %d", len(got))
	}
	for i, cue := range got {
		if cue.Index != cues[i].Index || cue.Start != cues[i].Start || cue.End != cues[i].End {
			t.Errorf("cue %d timing changed: %+v", i, cue)
		}
		if cue.Text != strings.ToUpper(cues[i].Text) {
			t.Errorf("cue %d text = %q", i, cue.Text)
		}
	}
}

func TestTranslateCuesPartialFailureKeepsOriginals(t *testing.T) {
	cues := []captions.Cue{
		{Index: 1, Start: 0, End: 1, Text: "keep"},
		{Index: 2, Start: 1, End: 2, Text: "flip"},
	}
	ft := &fakeTranslator{fail: func(text string) bool { return text == "keep" }}
	ic := translate.NewInterceptor(ft, nil, translate.InterceptorOptions{MaxConcurrent: 2})
	got := ic.TranslateCues(context.Background(), cues, "en")
	if got[0].Text != "keep" {
		t.Errorf("failed cue text = %q, want original", got[0].Text)
	}
	if got[1].Text != "FLIP" {
		t.Errorf("successful cue text = %q", got[1].Text)
	}
}

func TestTranslateCuesDoesNotMutateInput(t *testing.T) {
	cues := []captions.Cue{{Index: 1, Start: 0, End: 1, Text: "original"}}
	ic := translate.NewInterceptor(&fakeTranslator{}, nil, translate.InterceptorOptions{MaxConcurrent: 1})
	_ = ic.TranslateCues(context.Background(), cues, "en")
	if cues[0].Text != "original" {
		t.Fatalf("input slice mutated: %q", cues[0].Text)
	}
}
