package history

// DefaultLimit is the number of entries a Log keeps before evicting the oldest.
const DefaultLimit = 1000

// Log is a bounded, newest-first sequence of entries backed by a ring buffer.
// Index 0 is the newest entry.
type Log struct {
	buf  []Entry
	head int
	n    int
}

// NewLog creates an empty log holding at most limit entries. A limit below 1 uses DefaultLimit.
func NewLog(limit int) *Log {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Log{buf: make([]Entry, limit)}
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return l.n
}

// Limit returns the maximum number of entries.
func (l *Log) Limit() int {
	return len(l.buf)
}

func (l *Log) slot(i int) int {
	return (l.head + i) % len(l.buf)
}

// At returns the entry i positions from the newest, or nil if i is out of range.
func (l *Log) At(i int) Entry {
	if i < 0 || i >= l.n {
		return nil
	}
	return l.buf[l.slot(i)]
}

// PushFront inserts e as the newest entry, evicting the oldest entry first when the log is full.
//
// Returns:
//   - bool: true if an entry was evicted
func (l *Log) PushFront(e Entry) bool {
	evicted := false
	if l.n == len(l.buf) {
		l.EvictOldest()
		evicted = true
	}
	l.head = (l.head - 1 + len(l.buf)) % len(l.buf)
	l.buf[l.head] = e
	l.n++
	return evicted
}

// ReplaceFront replaces the newest entry. It is a no-op on an empty log.
func (l *Log) ReplaceFront(e Entry) {
	if l.n == 0 {
		return
	}
	l.buf[l.head] = e
}

// TruncateFront discards the k newest entries.
func (l *Log) TruncateFront(k int) {
	k = min(max(k, 0), l.n)
	for range k {
		l.buf[l.head] = nil
		l.head = l.slot(1)
		l.n--
	}
}

// EvictOldest discards the oldest entry.
func (l *Log) EvictOldest() {
	if l.n == 0 {
		return
	}
	l.buf[l.slot(l.n-1)] = nil
	l.n--
}

// Clear discards every entry.
func (l *Log) Clear() {
	clear(l.buf)
	l.head = 0
	l.n = 0
}

// Entries returns a newest-first copy of the entries.
func (l *Log) Entries() []Entry {
	out := make([]Entry, l.n)
	for i := range out {
		out[i] = l.buf[l.slot(i)]
	}
	return out
}
