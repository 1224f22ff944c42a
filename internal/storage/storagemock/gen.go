package storagemock

import "github.com/slok/tdo/internal/storage"

var _ storage.KV = &MockKV{}

//go:generate mockery --case underscore --output . --outpkg storagemock --name KV --srcpkg github.com/slok/tdo/internal/storage --structname MockKV --filename mocks.go
