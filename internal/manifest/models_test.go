package manifest_test

import (
	"testing"

	"clapper/internal/manifest"
)

func TestParseStep(t *testing.T) {
	cases := []struct {
		input string
		want  manifest.Step
		ok    bool
	}{
		{"voiceover", manifest.StepVoiceover, true},
		{" Avatar ", manifest.StepAvatar, true},
		{"MUSIC", manifest.StepMusic, true},
		{"composition", manifest.StepComposition, true},
		{"thumbnail", manifest.StepThumbnail, true},
		{"upload", manifest.StepUpload, true},
		{"render", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := manifest.ParseStep(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStep(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseAssetStatus(t *testing.T) {
	for _, status := range manifest.AllAssetStatuses() {
		got, ok := manifest.ParseAssetStatus(string(status))
		if !ok || got != status {
			t.Fatalf("ParseAssetStatus(%q) = %q, %v", status, got, ok)
		}
	}
	if _, ok := manifest.ParseAssetStatus("done"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestStepOrderExcludesForwardSteps(t *testing.T) {
	order := manifest.StepOrder()
	want := []manifest.Step{
		manifest.StepVoiceover,
		manifest.StepAvatar,
		manifest.StepMusic,
		manifest.StepComposition,
	}
	if len(order) != len(want) {
		t.Fatalf("unexpected order length %d", len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}

	all := manifest.AllSteps()
	if len(all) != 6 {
		t.Fatalf("expected six known steps, got %d", len(all))
	}
}

func TestMarkStepCompleteIdempotent(t *testing.T) {
	state := manifest.NewState("demo", t.TempDir())
	state.MarkStepComplete(manifest.StepVoiceover)
	state.MarkStepComplete(manifest.StepVoiceover)
	if len(state.CompletedSteps) != 1 {
		t.Fatalf("expected one completed step, got %v", state.CompletedSteps)
	}
	if !state.IsStepComplete(manifest.StepVoiceover) {
		t.Fatal("expected voiceover to be complete")
	}
	if state.IsStepComplete(manifest.StepAvatar) {
		t.Fatal("avatar should not be complete")
	}
}

func TestResumePointWalksFixedOrder(t *testing.T) {
	state := manifest.NewState("demo", t.TempDir())

	if rp := state.ResumePoint(); rp == nil || *rp != manifest.StepVoiceover {
		t.Fatalf("fresh state resume point = %v, want voiceover", rp)
	}

	state.MarkStepComplete(manifest.StepVoiceover)
	if rp := state.ResumePoint(); rp == nil || *rp != manifest.StepAvatar {
		t.Fatalf("resume point = %v, want avatar", rp)
	}

	// Completing a later step out of order never hides an earlier gap.
	state.MarkStepComplete(manifest.StepComposition)
	if rp := state.ResumePoint(); rp == nil || *rp != manifest.StepAvatar {
		t.Fatalf("resume point = %v, want avatar despite later completion", rp)
	}

	state.MarkStepComplete(manifest.StepAvatar)
	state.MarkStepComplete(manifest.StepMusic)
	if rp := state.ResumePoint(); rp != nil {
		t.Fatalf("expected nil resume point when all steps complete, got %v", *rp)
	}
}

func TestResumePointForwardStepsDoNotCount(t *testing.T) {
	state := manifest.NewState("demo", t.TempDir())
	state.MarkStepComplete(manifest.StepThumbnail)
	state.MarkStepComplete(manifest.StepUpload)
	if rp := state.ResumePoint(); rp == nil || *rp != manifest.StepVoiceover {
		t.Fatalf("resume point = %v, want voiceover", rp)
	}
}

func TestResumePointAllSubsets(t *testing.T) {
	order := manifest.StepOrder()
	for mask := 0; mask < 1<<len(order); mask++ {
		state := manifest.NewState("demo", t.TempDir())
		for i, step := range order {
			if mask&(1<<i) != 0 {
				state.MarkStepComplete(step)
			}
		}

		var want *manifest.Step
		for i := range order {
			if mask&(1<<i) == 0 {
				want = &order[i]
				break
			}
		}

		got := state.ResumePoint()
		switch {
		case want == nil && got != nil:
			t.Fatalf("mask %04b: expected nil resume point, got %v", mask, *got)
		case want != nil && got == nil:
			t.Fatalf("mask %04b: expected %v, got nil", mask, *want)
		case want != nil && *got != *want:
			t.Fatalf("mask %04b: expected %v, got %v", mask, *want, *got)
		}
	}
}

func TestAssetRecordIsComplete(t *testing.T) {
	var rec *manifest.AssetRecord
	if rec.IsComplete() {
		t.Fatal("nil record cannot be complete")
	}
	rec = &manifest.AssetRecord{Kind: manifest.AssetAudio, Status: manifest.AssetComplete}
	if rec.IsComplete() {
		t.Fatal("complete status without path should not count")
	}
	rec.Path = "/tmp/audio.mp3"
	if !rec.IsComplete() {
		t.Fatal("expected complete record with path")
	}
	rec.Status = manifest.AssetSkipped
	if rec.IsComplete() {
		t.Fatal("skipped record should not count as complete")
	}
}
