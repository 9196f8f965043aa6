package server

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
)

func echoRouter() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/api/echo/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		session, _ := r.Cookie("sessionId")
		http.SetCookie(w, &http.Cookie{Name: "a", Value: "1"})
		http.SetCookie(w, &http.Cookie{Name: "b", Value: "2"})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(mux.Vars(r)["id"] + "|" + r.URL.Query().Get("q") + "|" + session.Value + "|" + string(body)))
	}).Methods(http.MethodPost)
	return router
}

func TestLambdaHandlerRoundTrip(t *testing.T) {
	handler := LambdaHandler(echoRouter())

	event := events.APIGatewayV2HTTPRequest{
		RawPath:         "/api/echo/42",
		RawQueryString:  "q=hello",
		Cookies:         []string{"sessionId=s1", "sessionVersionId=v1"},
		Headers:         map[string]string{"content-type": "application/json"},
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"x":1}`)),
		IsBase64Encoded: true,
	}
	event.RequestContext.HTTP.Method = http.MethodPost

	resp, err := handler(context.Background(), event)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if resp.Body != `42|hello|s1|{"x":1}` {
		t.Fatalf("unexpected body %q", resp.Body)
	}
	if len(resp.Cookies) != 2 || resp.Cookies[0] != "a=1" || resp.Cookies[1] != "b=2" {
		t.Fatalf("unexpected cookies %v", resp.Cookies)
	}
	if _, ok := resp.Headers["Set-Cookie"]; ok {
		t.Fatalf("Set-Cookie must move to the cookies field")
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Fatalf("unexpected headers %v", resp.Headers)
	}
}

func TestLambdaHandlerBadBase64(t *testing.T) {
	handler := LambdaHandler(echoRouter())

	event := events.APIGatewayV2HTTPRequest{RawPath: "/api/echo/1", Body: "%%%", IsBase64Encoded: true}
	event.RequestContext.HTTP.Method = http.MethodPost

	if _, err := handler(context.Background(), event); err == nil {
		t.Fatalf("expected an error for an undecodable body")
	}
}

func TestLambdaHandlerThroughRouter(t *testing.T) {
	handler := LambdaHandler(NewRouter(Deps{}))

	event := events.APIGatewayV2HTTPRequest{RawPath: "/health"}
	event.RequestContext.HTTP.Method = http.MethodGet

	resp, err := handler(context.Background(), event)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, resp.Body)
	}
	if resp.Headers["X-Request-Id"] == "" {
		t.Fatalf("expected request id header, got %v", resp.Headers)
	}
}
