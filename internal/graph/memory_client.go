package graph

import (
	"context"
	"strings"
	"sync"
)

// MemoryClient is an in-memory implementation of the Client interface used
// for unit testing repository and analytics logic without a running database.
//
// Results can be queued globally (returned in FIFO order) or bound to a
// query fragment, which lets multi-query flows such as the scoring stage
// return different canned data per statement.
type MemoryClient struct {
	mu             sync.Mutex
	writeCalls     []ExecutedQuery
	readCalls      []ExecutedQuery
	readResults    []Result
	writeResults   []Result
	fragmentResult map[string]Result
	fragmentErr    map[string]error
	err            error
	connectivity   error
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates the in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		fragmentResult: make(map[string]Result),
		fragmentErr:    make(map[string]error),
	}
}

// WithError configures the client to return the provided error for subsequent calls.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// StubResult binds a canned result to any query containing fragment.
// Fragment matches take precedence over queued results.
func (m *MemoryClient) StubResult(fragment string, res Result) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fragmentResult[fragment] = res
	return m
}

// StubError binds an error to any query containing fragment.
func (m *MemoryClient) StubError(fragment string, err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fragmentErr[fragment] = err
	return m
}

// PushReadResult appends a result returned on the next unmatched ExecuteRead call.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, res)
}

// PushWriteResult appends a result returned on the next unmatched ExecuteWrite call.
func (m *MemoryClient) PushWriteResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResults = append(m.writeResults, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}

	m.writeCalls = append(m.writeCalls, ExecutedQuery{
		Query:  cypher,
		Params: cloneMap(params),
	})

	if res, err, ok := m.matchFragment(cypher); ok {
		return res, err
	}
	if len(m.writeResults) == 0 {
		return Result{}, nil
	}

	res := m.writeResults[0]
	m.writeResults = m.writeResults[1:]
	return res, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}

	m.readCalls = append(m.readCalls, ExecutedQuery{
		Query:  cypher,
		Params: cloneMap(params),
	})

	if res, err, ok := m.matchFragment(cypher); ok {
		return res, err
	}
	if len(m.readResults) == 0 {
		return Result{}, nil
	}

	res := m.readResults[0]
	m.readResults = m.readResults[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// WriteCalls returns a snapshot of executed write queries.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// ReadCalls returns a snapshot of executed read queries.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}

func (m *MemoryClient) matchFragment(cypher string) (Result, error, bool) {
	for fragment, err := range m.fragmentErr {
		if strings.Contains(cypher, fragment) {
			return Result{}, err, true
		}
	}
	for fragment, res := range m.fragmentResult {
		if strings.Contains(cypher, fragment) {
			return res, nil, true
		}
	}
	return Result{}, nil, false
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
