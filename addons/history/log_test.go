package history

import (
	"slices"
	"testing"
)

func tech(name string) Entry {
	return TechniqueStateChange{Name: name, Enabled: true}
}

func names(l *Log) []string {
	var out []string
	for _, e := range l.Entries() {
		out = append(out, e.(TechniqueStateChange).Name)
	}
	return out
}

func TestLogPushFrontIsNewestFirst(t *testing.T) {
	l := NewLog(4)
	for _, n := range []string{"a", "b", "c"} {
		l.PushFront(tech(n))
	}
	if got := names(l); !slices.Equal(got, []string{"c", "b", "a"}) {
		t.Errorf("entries = %v", got)
	}
	if l.At(0).(TechniqueStateChange).Name != "c" || l.At(3) != nil || l.At(-1) != nil {
		t.Error("At does not index from the newest entry")
	}
}

func TestLogEvictsOldestWhenFull(t *testing.T) {
	l := NewLog(3)
	for i, n := range []string{"a", "b", "c", "d", "e"} {
		evicted := l.PushFront(tech(n))
		if want := i >= 3; evicted != want {
			t.Errorf("push %s evicted = %v, want %v", n, evicted, want)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
	if got := names(l); !slices.Equal(got, []string{"e", "d", "c"}) {
		t.Errorf("entries = %v", got)
	}
}

func TestLogTruncateFront(t *testing.T) {
	tests := []struct {
		name string
		k    int
		want []string
	}{
		{name: "none", k: 0, want: []string{"d", "c", "b", "a"}},
		{name: "two", k: 2, want: []string{"b", "a"}},
		{name: "all", k: 4, want: nil},
		{name: "more than all", k: 9, want: nil},
		{name: "negative", k: -1, want: []string{"d", "c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLog(4)
			for _, n := range []string{"a", "b", "c", "d"} {
				l.PushFront(tech(n))
			}
			l.TruncateFront(tt.k)
			if got := names(l); !slices.Equal(got, tt.want) {
				t.Errorf("entries = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogWrapsAround(t *testing.T) {
	l := NewLog(3)
	for _, n := range []string{"a", "b", "c"} {
		l.PushFront(tech(n))
	}
	l.TruncateFront(2)
	l.PushFront(tech("d"))
	l.PushFront(tech("e"))
	l.PushFront(tech("f"))
	if got := names(l); !slices.Equal(got, []string{"f", "e", "d"}) {
		t.Errorf("entries = %v", got)
	}
	l.ReplaceFront(tech("g"))
	l.EvictOldest()
	if got := names(l); !slices.Equal(got, []string{"g", "e"}) {
		t.Errorf("entries = %v", got)
	}
}

func TestLogClear(t *testing.T) {
	l := NewLog(0)
	if l.Limit() != DefaultLimit {
		t.Fatalf("limit = %d, want %d", l.Limit(), DefaultLimit)
	}
	l.PushFront(tech("a"))
	l.Clear()
	l.EvictOldest()
	l.ReplaceFront(tech("b"))
	if l.Len() != 0 || len(l.Entries()) != 0 {
		t.Errorf("log not empty after clear: %d", l.Len())
	}
}
