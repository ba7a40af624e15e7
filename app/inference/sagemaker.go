package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	log "github.com/go-pkgz/lgr"

	"github.com/umputun/spamham/lib/encoder"
	"github.com/umputun/spamham/lib/spamcheck"
)

// SageMakerClient is a subset of sagemakerruntime client, satisfied by *sagemakerruntime.Client
type SageMakerClient interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput,
		optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// SageMakerPredictor invokes SageMaker runtime endpoint
type SageMakerPredictor struct {
	Client   SageMakerClient
	Endpoint string // endpoint name
}

// Predict sends matrix to the endpoint and returns one result per matrix row
func (p *SageMakerPredictor) Predict(ctx context.Context, m *encoder.Matrix) ([]spamcheck.Result, error) {
	if p.Client == nil || p.Endpoint == "" {
		return nil, errors.New("sagemaker endpoint not configured")
	}
	body, err := encodeRequest(m)
	if err != nil {
		return nil, err
	}
	out, err := p.Client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(p.Endpoint),
		ContentType:  aws.String(ContentType),
		Accept:       aws.String(ContentType),
		Body:         body,
	})
	if err != nil {
		return nil, fmt.Errorf("can't invoke sagemaker endpoint %s: %w", p.Endpoint, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: no output from sagemaker endpoint %s", ErrBadResponse, p.Endpoint)
	}
	res, err := decodeResponse(out.Body, m.Rows)
	if err != nil {
		return nil, fmt.Errorf("can't decode response from sagemaker endpoint %s: %w", p.Endpoint, err)
	}
	log.Printf("[DEBUG] sagemaker %s, %d rows, first: %s", p.Endpoint, len(res), res[0])
	return res, nil
}
