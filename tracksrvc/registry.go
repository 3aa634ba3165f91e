package tracksrvc

import (
	"sync"
	"time"
)

// Registry maps correlation ids to in-flight tracking entries.
// An entry exists here if and only if the submission has not
// yet reached a terminal result; the processor removes entries
// exactly once on terminal detection.
type Registry struct {
	lock    sync.Mutex
	entries map[string]TrackEntry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]TrackEntry),
	}
}

func (r *Registry) Put(entry TrackEntry) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.entries[entry.JobId] = entry
}

func (r *Registry) Get(jobId string) (TrackEntry, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	entry, ok := r.entries[jobId]
	return entry, ok
}

// Touch refreshes the entry's last-progress timestamp,
// postponing the next active poll. Unknown ids are ignored.
func (r *Registry) Touch(jobId string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	entry, ok := r.entries[jobId]
	if !ok {
		return
	}
	entry.LastProgress = time.Now()
	r.entries[jobId] = entry
}

func (r *Registry) Remove(jobId string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.entries, jobId)
}

// Ids returns a snapshot of the in-flight correlation ids.
func (r *Registry) Ids() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) Empty() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.entries) == 0
}
