package tracksrvc

import "sync"

// ResultRepo stores terminal job results after their entries
// are evicted from the registry, so finished jobs remain
// queryable. In-memory only; results do not survive restarts.
type ResultRepo interface {
	Save(jobId string, res JobResult) error
	Get(jobId string) (JobResult, error)
}

type InMemResultRepo struct {
	lock    sync.Mutex
	results map[string]JobResult
}

func NewInMemResultRepo() *InMemResultRepo {
	return &InMemResultRepo{
		results: make(map[string]JobResult),
	}
}

func (m *InMemResultRepo) Save(jobId string, res JobResult) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.results[jobId] = res
	return nil
}

func (m *InMemResultRepo) Get(jobId string) (JobResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	res, ok := m.results[jobId]
	if !ok {
		return JobResult{}, ErrJobNotFound()
	}
	return res, nil
}
