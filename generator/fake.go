package generator

import "context"

// FakeGenerator is a test double that returns canned results.
type FakeGenerator struct {
	Result   *Result
	Err      error
	Requests []Request
}

// Generate implements ScenarioGenerator.
func (f *FakeGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Result, nil
}
