package aws

import (
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewDynamoClient returns a DynamoDB client honouring the custom endpoint.
func NewDynamoClient(cfg sdkaws.Config, s Settings) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = sdkaws.String(s.Endpoint)
		}
	})
}
