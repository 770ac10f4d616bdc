package ssm

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	params map[string]string
	puts   []*ssm.PutParameterInput
}

func (f *fakeClient) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	out := &ssm.GetParametersOutput{}
	for _, name := range in.Names {
		v, ok := f.params[name]
		if !ok {
			out.InvalidParameters = append(out.InvalidParameters, name)
			continue
		}
		out.Parameters = append(out.Parameters, types.Parameter{Name: aws.String(name), Value: aws.String(v)})
	}
	return out, nil
}

func (f *fakeClient) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	out := &ssm.GetParametersByPathOutput{}
	for name, v := range f.params {
		if len(name) > len(*in.Path) && name[:len(*in.Path)] == *in.Path {
			out.Parameters = append(out.Parameters, types.Parameter{Name: aws.String(name), Value: aws.String(v)})
		}
	}
	return out, nil
}

func (f *fakeClient) PutParameter(_ context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	f.puts = append(f.puts, in)
	f.params[*in.Name] = *in.Value
	return &ssm.PutParameterOutput{}, nil
}

func TestFetchParameters(t *testing.T) {
	client := &fakeClient{params: map[string]string{"/app/secret": "s3cr3t"}}

	var secret string
	err := FetchParameters(context.Background(), client, map[string]*string{"/app/secret": &secret}, WithDecryption())
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", secret)

	var missing string
	err = FetchParameters(context.Background(), client, map[string]*string{"/app/missing": &missing})
	require.ErrorIs(t, err, ErrParamsNotFound)
}

func TestParameterStore(t *testing.T) {
	client := &fakeClient{params: map[string]string{
		"/salon/register/telegram_token": "123:abc",
		"/salon/register/ana":            "1001",
		"/other/ignored":                 "x",
	}}
	store := NewParameterStore(client, "/salon/register")

	params, err := store.List(context.Background())
	require.NoError(t, err)

	got := make(map[string]string, len(params))
	for _, p := range params {
		got[p.Key] = p.Value
	}
	assert.Equal(t, map[string]string{"telegram_token": "123:abc", "ana": "1001"}, got)

	require.NoError(t, store.Put(context.Background(), "last_summary_date", "2024-06-10", false))
	require.Len(t, client.puts, 1)
	assert.Equal(t, "/salon/register/last_summary_date", *client.puts[0].Name)
	assert.Equal(t, types.ParameterTypeString, client.puts[0].Type)
	assert.True(t, *client.puts[0].Overwrite)
}
