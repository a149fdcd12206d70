package history

import "testing"

func TestCapturesMergeIntoOneEntry(t *testing.T) {
	f := newFixture(t)
	for _, v := range []float32{0.1, 0.2, 0.3, 0.4} {
		f.setFloat("strength", v)
	}

	if f.tr.Len() != 1 || f.tr.Position() != 0 {
		t.Fatalf("len = %d, position = %d; want 1, 0", f.tr.Len(), f.tr.Position())
	}
	e := f.tr.Entries()[0].(UniformValueChange)
	if got := e.Before.Floats(1)[0]; got != 0 {
		t.Errorf("before = %v, want 0", got)
	}
	if got := e.After.Floats(1)[0]; got != 0.4 {
		t.Errorf("after = %v, want 0.4", got)
	}
	if e.Variable != f.variable("strength") || e.Components != 1 {
		t.Errorf("entry = %+v", e)
	}
}

func TestIdenticalValueIsNotRecorded(t *testing.T) {
	f := newFixture(t)
	f.setFloat("strength", 0)
	if f.tr.Len() != 0 {
		t.Fatalf("no-op edit recorded: len = %d", f.tr.Len())
	}

	f.setFloat("strength", 0.5)
	f.rt.SetUniformValueInt(f.variable("count"), 3)
	f.rt.SetUniformValueInt(f.variable("count"), 3)
	if f.tr.Len() != 2 {
		t.Errorf("len = %d, want 2", f.tr.Len())
	}
}

func TestVariablesWithoutUITypeAreIgnored(t *testing.T) {
	f := newFixture(t)
	f.setFloat("hidden", 1)
	if f.tr.Len() != 0 {
		t.Errorf("hidden variable recorded")
	}
	if f.float("hidden") != 1 {
		t.Error("history must not block the write")
	}
}

func TestEditsToDifferentVariablesAreSeparate(t *testing.T) {
	f := newFixture(t)
	f.setFloat("strength", 0.1)
	f.setFloat("tint", 1, 1, 1)
	f.setFloat("strength", 0.2)

	entries := f.tr.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	head := entries[0].(UniformValueChange)
	if head.Before.Floats(1)[0] != 0.1 || head.After.Floats(1)[0] != 0.2 {
		t.Errorf("head = %+v", head)
	}
}

func TestSeekRoundTripRestoresState(t *testing.T) {
	f := newFixture(t)
	initial := f.snapshot()

	f.setFloat("strength", 0.5)
	f.setFloat("tint", 1, 0.5, 0.25)
	f.rt.SetUniformValueInt(f.variable("quality"), 2)
	f.rt.SetUniformValueBool(f.variable("toggle"), true)
	f.rt.SetUniformValueUint(f.variable("count"), 9)
	f.rt.SetUniformValueInt(f.variable("level"), -4)
	f.rt.SetTechniqueState(f.technique("Vignette"), true)
	latest := f.snapshot()
	n := f.tr.Len()
	if n != 7 {
		t.Fatalf("len = %d, want 7", n)
	}

	for _, p := range []int{1, 3, n} {
		f.tr.Seek(p)
		mid := f.snapshot()
		f.tr.Seek(0)
		if !sameSnapshot(f.snapshot(), latest) {
			t.Fatalf("seek %d and back did not restore latest state", p)
		}
		f.tr.Seek(p)
		if !sameSnapshot(f.snapshot(), mid) {
			t.Fatalf("seek 0 and back to %d did not restore state", p)
		}
		f.tr.Seek(0)
	}

	f.tr.Seek(n)
	if !sameSnapshot(f.snapshot(), initial) {
		t.Errorf("seeking to the end of undo did not restore the initial state")
	}
	if f.tr.Len() != n {
		t.Errorf("seeking changed the log length: %d", f.tr.Len())
	}
}

func TestSeekAppliesIntermediateStates(t *testing.T) {
	f := newFixture(t)
	f.setFloat("strength", 0.25)
	f.setFloat("tint", 1, 1, 1)
	f.setFloat("strength", 0.75)

	f.tr.Seek(1)
	if f.float("strength") != 0.25 || f.float("tint") != 1 {
		t.Errorf("after seek 1: strength = %v, tint = %v", f.float("strength"), f.float("tint"))
	}
	f.tr.Seek(2)
	if f.float("tint") != 0 || f.float("strength") != 0.25 {
		t.Errorf("after seek 2: strength = %v, tint = %v", f.float("strength"), f.float("tint"))
	}
	f.tr.Seek(3)
	if f.float("strength") != 0 {
		t.Errorf("after seek 3: strength = %v", f.float("strength"))
	}
	f.tr.Seek(0)
	if f.float("strength") != 0.75 || f.float("tint") != 1 {
		t.Errorf("after seek 0: strength = %v, tint = %v", f.float("strength"), f.float("tint"))
	}
}

func TestSeekClampsAndIgnoresEmptyLog(t *testing.T) {
	f := newFixture(t)
	f.tr.Seek(5)
	if f.tr.Position() != 0 {
		t.Fatalf("seek on empty log moved the cursor to %d", f.tr.Position())
	}

	f.setFloat("strength", 0.5)
	f.tr.Seek(99)
	if f.tr.Position() != 1 || f.float("strength") != 0 {
		t.Errorf("position = %d, strength = %v", f.tr.Position(), f.float("strength"))
	}
	f.tr.Seek(-3)
	if f.tr.Position() != 0 || f.float("strength") != 0.5 {
		t.Errorf("position = %d, strength = %v", f.tr.Position(), f.float("strength"))
	}
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t)
	if f.tr.Undo() || f.tr.Redo() {
		t.Fatal("undo/redo moved on an empty log")
	}
	f.setFloat("strength", 0.5)

	if !f.tr.Undo() || f.float("strength") != 0 {
		t.Fatalf("undo: strength = %v", f.float("strength"))
	}
	if f.tr.Undo() {
		t.Error("undo past the end of undo")
	}
	if !f.tr.Redo() || f.float("strength") != 0.5 {
		t.Fatalf("redo: strength = %v", f.float("strength"))
	}
	if f.tr.Redo() {
		t.Error("redo past the latest entry")
	}
}

func TestLimitEvictsExactlyTheOldest(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= DefaultLimit+1; i++ {
		if i%2 == 1 {
			f.setFloat("strength", float32(i))
		} else {
			f.rt.SetUniformValueUint(f.variable("count"), uint32(i))
		}
		if f.tr.Len() > DefaultLimit {
			t.Fatalf("len = %d exceeds limit", f.tr.Len())
		}
	}

	entries := f.tr.Entries()
	if len(entries) != DefaultLimit {
		t.Fatalf("len = %d, want %d", len(entries), DefaultLimit)
	}
	oldest := entries[len(entries)-1].(UniformValueChange)
	if oldest.Variable != f.variable("count") || oldest.After[0] != 2 {
		t.Errorf("oldest = %+v, want the second edit", oldest)
	}
	newest := entries[0].(UniformValueChange)
	if newest.After.Floats(1)[0] != float32(DefaultLimit+1) {
		t.Errorf("newest = %+v", newest)
	}
}

func TestCustomLimit(t *testing.T) {
	f := newFixture(t, WithHistoryLimit(2))
	f.setFloat("strength", 1)
	f.setFloat("tint", 1)
	f.setFloat("offset", 1)
	if f.tr.Len() != 2 {
		t.Errorf("len = %d, want 2", f.tr.Len())
	}
}

func TestRecordingAfterSeekTruncatesForwardHistory(t *testing.T) {
	f := newFixture(t)
	// Record A, B and C, return to the state after A, then record D.
	f.setFloat("strength", 0.1)
	f.rt.SetUniformValueUint(f.variable("count"), 1)
	f.rt.SetUniformValueInt(f.variable("quality"), 1)
	f.tr.Seek(2)

	f.setFloat("tint", 0.5)
	entries := f.tr.Entries()
	if len(entries) != 2 || f.tr.Position() != 0 {
		t.Fatalf("len = %d, position = %d; want 2, 0", len(entries), f.tr.Position())
	}
	d, a := entries[0].(UniformValueChange), entries[1].(UniformValueChange)
	if d.Variable != f.variable("tint") || a.Variable != f.variable("strength") {
		t.Errorf("entries = %+v, want [D, A]", entries)
	}
}

func TestRecordingAfterSeekMergesIntoNewHead(t *testing.T) {
	f := newFixture(t)
	f.setFloat("strength", 0.1)
	f.rt.SetUniformValueUint(f.variable("count"), 1)
	f.tr.Seek(1)

	f.setFloat("strength", 0.3)
	entries := f.tr.Entries()
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	e := entries[0].(UniformValueChange)
	if e.Before.Floats(1)[0] != 0 || e.After.Floats(1)[0] != 0.3 {
		t.Errorf("entry = %+v", e)
	}
}

func TestPresetChangeClearsHistory(t *testing.T) {
	f := newFixture(t)
	f.setFloat("strength", 0.1)
	f.rt.SetUniformValueUint(f.variable("count"), 1)
	f.rt.SetUniformValueInt(f.variable("quality"), 1)
	f.tr.Seek(1)

	f.rt.SetCurrentPresetPath("Night.toml")
	if f.tr.Len() != 0 || f.tr.Position() != 0 || f.tr.ConsumeUpdated() {
		t.Errorf("len = %d, position = %d after preset change", f.tr.Len(), f.tr.Position())
	}
}

func TestConsumeUpdatedOnce(t *testing.T) {
	f := newFixture(t)
	if f.tr.ConsumeUpdated() {
		t.Fatal("fresh tracker reported an update")
	}
	f.setFloat("strength", 0.1)
	if !f.tr.ConsumeUpdated() {
		t.Fatal("recorded change did not set the update flag")
	}
	if f.tr.ConsumeUpdated() {
		t.Error("update flag not cleared by reading it")
	}
	f.tr.Seek(1)
	if f.tr.ConsumeUpdated() {
		t.Error("seeking should not set the update flag")
	}
}

func TestTechniqueToggleIsRecorded(t *testing.T) {
	f := newFixture(t)
	vignette := f.technique("Vignette")
	f.rt.SetTechniqueState(vignette, true)

	if f.tr.Len() != 1 {
		t.Fatalf("len = %d, want 1", f.tr.Len())
	}
	e := f.tr.Entries()[0].(TechniqueStateChange)
	if e.Name != "Vignette" || !e.Enabled || e.Technique != vignette {
		t.Errorf("entry = %+v", e)
	}

	f.tr.Seek(1)
	if f.rt.TechniqueState(vignette) {
		t.Error("undo did not disable the technique")
	}
	f.tr.Seek(0)
	if !f.rt.TechniqueState(vignette) {
		t.Error("redo did not enable the technique")
	}
}

func TestTechniqueToggleReplaysRedo(t *testing.T) {
	f := newFixture(t)
	vignette := f.technique("Vignette")
	f.rt.SetTechniqueState(vignette, true)
	f.tr.Seek(1)
	f.tr.ConsumeUpdated()

	f.rt.SetTechniqueState(vignette, true)
	if f.tr.Position() != 0 || f.tr.Len() != 1 {
		t.Errorf("position = %d, len = %d; want 0, 1", f.tr.Position(), f.tr.Len())
	}
	if !f.tr.ConsumeUpdated() {
		t.Error("replayed toggle should flag an update")
	}
}

func TestTechniqueToggleReplaysUndo(t *testing.T) {
	f := newFixture(t)
	vignette := f.technique("Vignette")
	f.rt.SetTechniqueState(vignette, true)

	f.rt.SetTechniqueState(vignette, false)
	if f.tr.Position() != 1 || f.tr.Len() != 1 {
		t.Errorf("position = %d, len = %d; want 1, 1", f.tr.Position(), f.tr.Len())
	}
}

func TestTechniqueToggleAfterUndoBranches(t *testing.T) {
	f := newFixture(t)
	f.rt.SetTechniqueState(f.technique("Vignette"), true)
	f.rt.SetTechniqueState(f.technique("Bloom"), true)
	f.tr.Seek(2)

	f.rt.SetTechniqueState(f.technique("Bloom"), false)
	entries := f.tr.Entries()
	if len(entries) != 1 || f.tr.Position() != 0 {
		t.Fatalf("len = %d, position = %d; want 1, 0", len(entries), f.tr.Position())
	}
	if e := entries[0].(TechniqueStateChange); e.Name != "Bloom" || e.Enabled {
		t.Errorf("entry = %+v", e)
	}
}

func TestExcludedTechniquesAreIgnored(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"AlwaysOn", "Screenshot", "Timer"} {
		h := f.technique(name)
		f.rt.SetTechniqueState(h, !f.rt.TechniqueState(h))
	}
	if f.tr.Len() != 0 {
		t.Errorf("len = %d, want 0", f.tr.Len())
	}
}

func TestSeekDoesNotRecordItsOwnWrites(t *testing.T) {
	f := newFixture(t)
	f.setFloat("strength", 0.5)
	f.rt.SetTechniqueState(f.technique("Bloom"), true)
	f.tr.Seek(2)
	f.tr.Seek(0)
	if f.tr.Len() != 2 {
		t.Errorf("len = %d, want 2", f.tr.Len())
	}
}

func TestStaleHandlesDuringSeekAreIgnored(t *testing.T) {
	f := newFixture(t)
	f.setFloat("strength", 0.5)
	if err := f.rt.LoadEffect(testEffect); err != nil {
		t.Fatal(err)
	}
	f.tr.Seek(1)
	if f.tr.Position() != 1 {
		t.Errorf("position = %d, want 1", f.tr.Position())
	}
	if f.float("strength") != 0 {
		t.Errorf("reloaded variable changed: %v", f.float("strength"))
	}
}
