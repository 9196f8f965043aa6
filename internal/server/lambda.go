// backend/internal/server/lambda.go
package server

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// LambdaHandler runs API Gateway HTTP API events through handler. Set-Cookie
// headers come back in the Cookies field, which HTTP APIs need for more than one.
func LambdaHandler(handler http.Handler) func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return httpadapter.NewV2(handler).ProxyWithContext
}
