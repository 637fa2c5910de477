package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterGetter is the subset of the SSM client used for secret lookup.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain.
func NewParameterStore(ctx context.Context) (*ssm.Client, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctxWithTimeout)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveAPIKey returns the Coinglass credential. A key set directly (config or
// COINGLASS_API_KEY) is returned as is; otherwise the named SSM parameter is read
// with decryption. An empty result is not an error: the liquidation source then
// degrades to its fallback.
func ResolveAPIKey(ctx context.Context, cfg CoinglassConfig, store ParameterGetter) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	if cfg.APIKeyParameter == "" || store == nil {
		return "", nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := store.GetParameter(ctxWithTimeout, &ssm.GetParameterInput{
		Name:           aws.String(cfg.APIKeyParameter),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", cfg.APIKeyParameter, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", nil
	}

	return aws.ToString(result.Parameter.Value), nil
}
