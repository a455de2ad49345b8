package analyzer

// DefaultPersistence is the number of consecutive frames a candidate
// error must appear before it is confirmed.
const DefaultPersistence = 3

// Debouncer tracks per-label consecutive-appearance counters for
// candidate form errors. Labels absent from a frame decay by one instead
// of resetting, so a single-frame dropout does not erase a near-confirmed
// error.
type Debouncer struct {
	threshold int
	counts    map[string]int
}

// NewDebouncer creates a Debouncer with the given persistence threshold.
// Thresholds less than 1 fall back to DefaultPersistence.
func NewDebouncer(threshold int) *Debouncer {
	if threshold < 1 {
		threshold = DefaultPersistence
	}
	return &Debouncer{
		threshold: threshold,
		counts:    make(map[string]int),
	}
}

// Update advances all counters with this frame's candidates. It returns
// the candidates confirmed for this frame (counter at or past the
// threshold) and the subset whose counter reached the threshold exactly
// this frame; the latter drives the one-shot occurrence log.
func (d *Debouncer) Update(candidates []ErrorCandidate) (confirmed, newly []ErrorCandidate) {
	present := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		present[c.Label] = true
		d.counts[c.Label]++
		if d.counts[c.Label] >= d.threshold {
			confirmed = append(confirmed, c)
			if d.counts[c.Label] == d.threshold {
				newly = append(newly, c)
			}
		}
	}

	// Soft decay for labels not seen this frame.
	for label := range d.counts {
		if present[label] {
			continue
		}
		d.counts[label]--
		if d.counts[label] <= 0 {
			delete(d.counts, label)
		}
	}

	return confirmed, newly
}

// Count returns the current counter for a label; 0 if the label is not
// being tracked.
func (d *Debouncer) Count(label string) int {
	return d.counts[label]
}

// ErrorEntry records one confirmed error label: how many distinct
// confirmed episodes occurred and when the first one was confirmed.
type ErrorEntry struct {
	Label     string  `json:"label"`
	Count     int     `json:"count"`
	FirstSeen float64 `json:"first_seen"` // seconds into the run
}

// ErrorLog is the monotonically growing confirmed-error log for one run.
// An entry's count increments exactly once per confirmation episode, at
// the frame the persistence counter first reaches the threshold.
type ErrorLog struct {
	entries map[string]*ErrorEntry
	order   []string
}

// NewErrorLog creates an empty ErrorLog.
func NewErrorLog() *ErrorLog {
	return &ErrorLog{entries: make(map[string]*ErrorEntry)}
}

// Record logs a newly confirmed episode of the label at the given
// timestamp.
func (l *ErrorLog) Record(label string, ts float64) {
	e, ok := l.entries[label]
	if !ok {
		e = &ErrorEntry{Label: label, FirstSeen: ts}
		l.entries[label] = e
		l.order = append(l.order, label)
	}
	e.Count++
}

// Entries returns the logged errors in first-confirmed order.
func (l *ErrorLog) Entries() []ErrorEntry {
	out := make([]ErrorEntry, 0, len(l.order))
	for _, label := range l.order {
		out = append(out, *l.entries[label])
	}
	return out
}

// Distinct returns the number of distinct confirmed error labels.
func (l *ErrorLog) Distinct() int {
	return len(l.entries)
}

// TotalOccurrences returns the sum of all confirmed episode counts.
func (l *ErrorLog) TotalOccurrences() int {
	var total int
	for _, e := range l.entries {
		total += e.Count
	}
	return total
}
