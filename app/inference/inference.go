// Package inference sends encoded messages to a remote classifier and converts its response
// into classification results. Two transports are supported, plain HTTP(S) endpoint and AWS SageMaker
// runtime endpoint, both use the same JSON request and response formats.
package inference

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/umputun/spamham/lib/encoder"
	"github.com/umputun/spamham/lib/spamcheck"
)

//go:generate moq --out mocks/http_client.go --pkg mocks --skip-ensure --with-resets . HTTPClient
//go:generate moq --out mocks/sagemaker_client.go --pkg mocks --skip-ensure --with-resets . SageMakerClient

// ContentType of the request body
const ContentType = "application/json"

// response is a classifier answer, one inner array per row of the request matrix
type response struct {
	PredictedLabel       [][]float64 `json:"predicted_label"`
	PredictedProbability [][]float64 `json:"predicted_probability"`
}

// ErrBadResponse is returned when classifier response can't be matched to the request
var ErrBadResponse = errors.New("bad classifier response")

// encodeRequest makes request body from the matrix
func encodeRequest(m *encoder.Matrix) ([]byte, error) {
	if m == nil || m.Rows == 0 {
		return nil, errors.New("empty matrix")
	}
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("can't marshal matrix: %w", err)
	}
	return body, nil
}

// decodeResponse parses classifier response and makes one result per matrix row
func decodeResponse(data []byte, rows int) ([]spamcheck.Result, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("can't unmarshal response: %w", err)
	}
	if len(resp.PredictedLabel) != rows || len(resp.PredictedProbability) != rows {
		return nil, fmt.Errorf("%w: expected %d rows, got %d labels and %d probabilities",
			ErrBadResponse, rows, len(resp.PredictedLabel), len(resp.PredictedProbability))
	}
	res := make([]spamcheck.Result, 0, rows)
	for i := range rows {
		if len(resp.PredictedLabel[i]) == 0 || len(resp.PredictedProbability[i]) == 0 {
			return nil, fmt.Errorf("%w: empty prediction in row %d", ErrBadResponse, i)
		}
		res = append(res, spamcheck.FromPrediction(resp.PredictedLabel[i][0], resp.PredictedProbability[i][0]))
	}
	return res, nil
}
