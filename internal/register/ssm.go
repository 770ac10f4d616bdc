package register

import (
	"context"

	"github.com/Roma7-7-7/salon-notifier/pkg/ssm"
)

type ParameterStore interface {
	List(ctx context.Context) ([]ssm.Parameter, error)
	Put(ctx context.Context, key, value string, secure bool) error
}

// SSM keeps the register as one parameter per entry below a common path.
// The credential is written as a SecureString.
type SSM struct {
	params ParameterStore
}

func NewSSM(params ParameterStore) *SSM {
	return &SSM{params: params}
}

func (s *SSM) Entries(ctx context.Context) ([]Entry, error) {
	params, err := s.params.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]Entry, 0, len(params))
	for _, p := range params {
		res = append(res, Entry{ID: p.Name, Name: p.Key, Value: p.Value})
	}
	return res, nil
}

func (s *SSM) Upsert(ctx context.Context, name, value string) error {
	return s.params.Put(ctx, name, value, Key(name) == KeyCredential)
}
