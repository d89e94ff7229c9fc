package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/repository"
	"github.com/quillpost/newsletter-service/internal/usecase"
)

const issuePayload = `{"title":"Issue #1","content":{"html":"<p>Body</p>","text":"Body"}}`

func newNewsletterRouter(t *testing.T, store *fakeSubscriptionStore, sender *fakeEmailSender, operators *fakeOperatorStore, verifier *fakePasswordVerifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := usecase.NewOperatorAuthService(operators, verifier, zaptest.NewLogger(t))
	svc := usecase.NewNewsletterService(store, sender, auth, nil, zaptest.NewLogger(t))
	handler := NewNewsletterHandler(svc, zaptest.NewLogger(t))

	router := gin.New()
	router.POST("/newsletters", handler.Publish)
	return router
}

func confirmedEditorStore() *fakeOperatorStore {
	return &fakeOperatorStore{
		operator: &domain.Operator{
			UserID:       "op-1",
			Username:     "editor",
			PasswordHash: "$argon2id$v=19$m=15000,t=2,p=1$c2FsdA$aGFzaA",
		},
	}
}

func postIssue(router *gin.Engine, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/newsletters", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func editorAuthHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("editor:s3cret"))
}

func TestPublishDeliversIssueToConfirmedSubscribers(t *testing.T) {
	store := &fakeSubscriptionStore{
		listConfirmedResult: []string{"first@example.com", "second@example.com"},
	}
	sender := &fakeEmailSender{}
	router := newNewsletterRouter(t, store, sender, confirmedEditorStore(), &fakePasswordVerifier{result: true})

	rr := postIssue(router, issuePayload, editorAuthHeader())

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if sender.sendCalls != 2 {
		t.Fatalf("expected two deliveries, got %d", sender.sendCalls)
	}
}

func TestPublishRejectsMalformedBodyBeforeAuthentication(t *testing.T) {
	cases := map[string]string{
		"not json":        "this is not json",
		"missing title":   `{"content":{"html":"<p>Body</p>","text":"Body"}}`,
		"missing content": `{"title":"Issue #1"}`,
		"missing text":    `{"title":"Issue #1","content":{"html":"<p>Body</p>"}}`,
	}

	for label, body := range cases {
		t.Run(label, func(t *testing.T) {
			operators := confirmedEditorStore()
			verifier := &fakePasswordVerifier{result: true}
			router := newNewsletterRouter(t, &fakeSubscriptionStore{}, &fakeEmailSender{}, operators, verifier)

			rr := postIssue(router, body, editorAuthHeader())

			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rr.Code)
			}
			if operators.getCalls != 0 {
				t.Fatal("expected no credential lookup for a malformed body")
			}
			if verifier.calls != 0 {
				t.Fatal("expected no password verification for a malformed body")
			}
		})
	}
}

func TestPublishChallengesInvalidCredentials(t *testing.T) {
	cases := map[string]struct {
		operators *fakeOperatorStore
		verifier  *fakePasswordVerifier
		header    string
	}{
		"missing header":   {operators: confirmedEditorStore(), verifier: &fakePasswordVerifier{result: true}, header: ""},
		"unknown username": {operators: &fakeOperatorStore{getErr: repository.ErrNotFound}, verifier: &fakePasswordVerifier{result: true}, header: editorAuthHeader()},
		"wrong password":   {operators: confirmedEditorStore(), verifier: &fakePasswordVerifier{result: false}, header: editorAuthHeader()},
	}

	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			sender := &fakeEmailSender{}
			router := newNewsletterRouter(t, &fakeSubscriptionStore{listConfirmedResult: []string{"first@example.com"}}, sender, tc.operators, tc.verifier)

			rr := postIssue(router, issuePayload, tc.header)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if got := rr.Header().Get("WWW-Authenticate"); got != `Basic realm="publish"` {
				t.Fatalf("unexpected challenge header %q", got)
			}
			if sender.sendCalls != 0 {
				t.Fatal("expected no deliveries for an unauthenticated caller")
			}
		})
	}
}

func TestPublishReturnsInternalErrorWhenDeliveryFails(t *testing.T) {
	store := &fakeSubscriptionStore{listConfirmedResult: []string{"first@example.com"}}
	sender := &fakeEmailSender{sendErr: repository.ErrNotFound}
	router := newNewsletterRouter(t, store, sender, confirmedEditorStore(), &fakePasswordVerifier{result: true})

	rr := postIssue(router, issuePayload, editorAuthHeader())

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
