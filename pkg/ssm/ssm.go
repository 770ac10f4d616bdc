// Package ssm wraps the AWS Systems Manager Parameter Store calls the notifier needs.
//
// FetchParameters resolves a fixed set of secrets into string pointers at startup.
// ParameterStore treats every parameter under a path prefix as a mutable key/value entry.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	client := ssm.NewFromConfig(cfg)
//
//	var secret, token string
//	err := ssm.FetchParameters(ctx, client, map[string]*string{
//		"/salon-notifier/prod/trigger-secret": &secret,
//		"/salon-notifier/prod/records-token":  &token,
//	}, ssm.WithDecryption())
package ssm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ErrParamsNotFound is returned when one or more requested parameters
// do not exist in AWS Systems Manager Parameter Store.
var ErrParamsNotFound = errors.New("params not found")

// Client defines the subset of the SSM API used by this package.
type Client interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// FetchOptions configures the behavior of parameter fetching.
type FetchOptions struct {
	// withDecryption enables automatic decryption of SecureString parameters
	withDecryption bool
}

// OptionsF is a functional option for configuring FetchParameters.
type OptionsF func(*FetchOptions)

// WithDecryption returns an option that enables automatic decryption
// of SecureString parameters when fetching from SSM.
func WithDecryption() OptionsF {
	return func(o *FetchOptions) {
		o.withDecryption = true
	}
}

// FetchParameters retrieves multiple SSM parameters and populates their destination pointers.
// Returns ErrParamsNotFound if any requested parameter does not exist.
func FetchParameters(ctx context.Context, client Client, params map[string]*string, opts ...OptionsF) error {
	if len(params) == 0 {
		return nil
	}

	options := &FetchOptions{}
	for _, o := range opts {
		o(options)
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}

	result, err := client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(options.withDecryption),
	})
	if err != nil {
		return fmt.Errorf("ssm get parameters: %w", err)
	}

	if len(result.InvalidParameters) > 0 {
		return fmt.Errorf("%w: %s", ErrParamsNotFound, strings.Join(result.InvalidParameters, ", "))
	}

	for _, param := range result.Parameters {
		if param.Name == nil || param.Value == nil {
			continue
		}
		if dest, ok := params[*param.Name]; ok {
			*dest = *param.Value
		}
	}

	return nil
}

// Parameter is a single entry returned by ParameterStore.List.
type Parameter struct {
	// Name is the full parameter path, e.g. /salon-notifier/prod/register/telegram_token
	Name string
	// Key is the last path segment of Name.
	Key   string
	Value string
}

// ParameterStore exposes all parameters below a path as a flat key/value list.
type ParameterStore struct {
	client Client
	path   string
}

func NewParameterStore(client Client, path string) *ParameterStore {
	return &ParameterStore{
		client: client,
		path:   strings.TrimSuffix(path, "/") + "/",
	}
}

// List returns every parameter directly under the store path, decrypted.
func (s *ParameterStore) List(ctx context.Context) ([]Parameter, error) {
	paginator := ssm.NewGetParametersByPathPaginator(s.client, &ssm.GetParametersByPathInput{
		Path:           aws.String(s.path),
		Recursive:      aws.Bool(false),
		WithDecryption: aws.Bool(true),
	})

	var res []Parameter
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ssm get parameters by path %q: %w", s.path, err)
		}
		for _, p := range page.Parameters {
			if p.Name == nil {
				continue
			}
			res = append(res, Parameter{
				Name:  *p.Name,
				Key:   strings.TrimPrefix(*p.Name, s.path),
				Value: aws.ToString(p.Value),
			})
		}
	}

	return res, nil
}

// Put creates or overwrites the parameter <path><key>.
func (s *ParameterStore) Put(ctx context.Context, key, value string, secure bool) error {
	paramType := types.ParameterTypeString
	if secure {
		paramType = types.ParameterTypeSecureString
	}

	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(s.path + key),
		Value:     aws.String(value),
		Type:      paramType,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("ssm put parameter %q: %w", s.path+key, err)
	}

	return nil
}
