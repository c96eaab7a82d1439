package testutil

import (
	"github.com/arthur-debert/dolink/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockAccessControl implements types.AccessControl for testing
type MockAccessControl struct {
	mock.Mock
}

var _ types.AccessControl = (*MockAccessControl)(nil)

func (m *MockAccessControl) RequiresChanges(targetFile string) (bool, error) {
	args := m.Called(targetFile)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessControl) DescribeChanges() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAccessControl) ApplyChanges(targetFile string) error {
	args := m.Called(targetFile)
	return args.Error(0)
}
