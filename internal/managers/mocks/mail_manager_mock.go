package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMailManager is a mock of the MailManager.
// It implements managers.MailMgr and is used to simulate mail operations in tests.
type MockMailManager struct {
	mock.Mock
}

// SendWelcomeMail records the call and returns the configured error,
// simulating the behavior of mail sending in tests.
func (m *MockMailManager) SendWelcomeMail(email, name string) error {
	args := m.Called(email, name)
	return args.Error(0)
}
