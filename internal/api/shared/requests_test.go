package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=100"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		want    testRequest
	}{
		{name: "valid", body: `{"productId":"1","quantity":2,"extra":true}`, want: testRequest{ProductID: "1", Quantity: 2}},
		{name: "empty", body: ``, wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"productId":`},
		{name: "wrong type", body: `{"quantity":"two"}`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			var got testRequest
			err := DecodeJSON(req, &got)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.want == (testRequest{}):
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(testRequest{ProductID: "1", Quantity: 5}))
	assert.Error(t, ValidateRequest(testRequest{Quantity: 5}))
	assert.Error(t, ValidateRequest(testRequest{ProductID: "1", Quantity: 101}))
}
