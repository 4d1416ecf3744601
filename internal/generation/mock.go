package generation

import (
	"context"

	"github.com/theshul/ayaka-bot/internal/prompt"
)

// Mock is a scriptable Generator for tests.
type Mock struct {
	// Reply is the raw text the fake backend "generates". Silence and
	// sentinel handling go through the same resolution as real output.
	Reply string
	// Err, when set, is returned for every call.
	Err error

	Calls []prompt.Request
}

func (m *Mock) Generate(ctx context.Context, req prompt.Request, imageData []byte) (Result, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return Result{}, m.Err
	}
	return resolve(m.Reply), nil
}
