package folio

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
)

// contains http utils shared by every request to the backend

// RequestIDHeader carries a unique id per request, to match client and server logs.
const RequestIDHeader = "X-Request-ID"

// Session is the part of the session manager the transport relies on.
type Session interface {
	// Token returns the bearer token, "" when logged out.
	Token() string
	// Unauthorized is called when the backend rejects a request with 401.
	Unauthorized(ctx context.Context)
}

// authTransport attaches the session token to every request and logs the
// session out when the backend rejects it.
//
// A nil session sends requests without credentials, which is what the login
// request needs.
type authTransport struct {
	base    http.RoundTripper
	session Session
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// a RoundTripper must not modify the caller's request.
	req = req.Clone(req.Context())
	if t.session != nil {
		if token := t.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.Printf("%v %v failed [%s]: %v", req.Method, req.URL.Path, id, err)
		return nil, err
	}
	log.Printf("%v %v/%v %v [%s]", req.Method, req.URL.Host, req.URL.Path, resp.Status, id)

	if resp.StatusCode == http.StatusUnauthorized && t.session != nil {
		if current := t.session.Token(); current != "" && req.Header.Get("Authorization") != "Bearer "+current {
			log.Printf("ignoring 401 for a replaced token [%s]", id)
			return resp, nil
		}
		// the session must be cleared even if the caller gave up on the request.
		t.session.Unauthorized(context.WithoutCancel(req.Context()))
	}
	return resp, nil
}
