package mocks

// MockMetrics is a mock implementation of metrics recorder for testing
type MockMetrics struct {
	AccountLockoutCalls int
	RegistrationCalls   int

	LoginAttempts  map[string]int // status -> count
	TokenRefreshes map[string]int
	ContentCreated map[string]int // kind -> count
	Searches       map[string][]int
	Answers        map[bool]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		LoginAttempts:  make(map[string]int),
		TokenRefreshes: make(map[string]int),
		ContentCreated: make(map[string]int),
		Searches:       make(map[string][]int),
		Answers:        make(map[bool]int),
	}
}

func (m *MockMetrics) RecordAccountLockout() {
	m.AccountLockoutCalls++
}

func (m *MockMetrics) RecordRegistration() {
	m.RegistrationCalls++
}

func (m *MockMetrics) RecordLoginAttempt(status string) {
	m.LoginAttempts[status]++
}

func (m *MockMetrics) RecordTokenRefresh(status string) {
	m.TokenRefreshes[status]++
}

func (m *MockMetrics) RecordContentCreated(kind string) {
	m.ContentCreated[kind]++
}

func (m *MockMetrics) RecordSearch(list string, hits int) {
	m.Searches[list] = append(m.Searches[list], hits)
}

func (m *MockMetrics) RecordAnswer(correct bool) {
	m.Answers[correct]++
}
