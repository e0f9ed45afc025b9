package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/creativeplatform/tokengate/internal/service"
	"github.com/creativeplatform/tokengate/pkg/accesskey"
	"github.com/creativeplatform/tokengate/pkg/errorcode"
	"github.com/creativeplatform/tokengate/pkg/models/gate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubResolver struct {
	address string
}

func (r *stubResolver) Resolve(_ *http.Request) *gate.Session {
	return &gate.Session{Address: r.address}
}

type stubChecker struct {
	balance *big.Int
	err     error
}

func (c *stubChecker) CheckOwnership(_ context.Context, _ int, _ string, _ string, _ string) (*gate.EntitlementResult, error) {
	if c.err != nil {
		return nil, c.err
	}

	return &gate.EntitlementResult{Balance: c.balance, Owns: c.balance.Sign() > 0}, nil
}

func newTestRouter(t *testing.T, resolver *stubResolver, checker *stubChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)

	codec, err := accesskey.NewCodec([]byte("test-secret"), 3600, nil)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	gateSvc := &service.GateService{
		Codec:            codec,
		IdentityResolver: resolver,
		Checker:          checker,
	}

	tokenGateController := &TokenGateController{
		GroupName:        "/",
		GateSvc:          gateSvc,
		IdentityResolver: resolver,
	}

	router := gin.New()
	router.Use(CORSMiddleware())
	apiv1Group := router.Group("/api/v1")
	err = RegisterHandlers(apiv1Group, tokenGateController)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return router
}

func issueURL() string {
	return "/api/v1/token-gate?address=0x123&creatorAddress=0x456&tokenId=1&contractAddress=0x789&chain=1"
}

func performIssue(t *testing.T, router *gin.Engine) *gate.Decision {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", issueURL(), nil))

	if isOK := assert.Equal(t, http.StatusOK, recorder.Code); !isOK {
		t.FailNow()
	}

	decision := &gate.Decision{}
	err := json.Unmarshal(recorder.Body.Bytes(), decision)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return decision
}

func verifyBody(t *testing.T, accessKey string) *bytes.Buffer {
	payload := &gate.VerifyPayload{
		AccessKey: accessKey,
		Context: &gate.Context{
			CreatorAddress:  "0x456",
			TokenID:         "1",
			ContractAddress: "0x789",
			Chain:           1,
		},
		Timestamp: time.Now().UnixMilli(),
	}

	body, err := json.Marshal(payload)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	return bytes.NewBuffer(body)
}

func TestIssueEndpointReturnsAccessKey(t *testing.T) {
	router := newTestRouter(t, &stubResolver{}, &stubChecker{balance: big.NewInt(0)})

	decision := performIssue(t, router)
	assert.True(t, decision.Allowed)
	assert.NotEmpty(t, decision.AccessKey)
}

func TestIssueEndpointRejectsMissingFields(t *testing.T) {
	router := newTestRouter(t, &stubResolver{}, &stubChecker{balance: big.NewInt(0)})

	urls := []string{
		"/api/v1/token-gate",
		"/api/v1/token-gate?tokenId=1",
		"/api/v1/token-gate?creatorAddress=0x456&tokenId=1&contractAddress=0x789&chain=1", // no viewer address
		"/api/v1/token-gate?address=0x123&creatorAddress=0x456&tokenId=1&contractAddress=0x789", // no chain
	}

	for _, url := range urls {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", url, nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code, url)

		decision := &gate.Decision{}
		err := json.Unmarshal(recorder.Body.Bytes(), decision)
		if isNoError := assert.NoError(t, err); !isNoError {
			t.FailNow()
		}

		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Message, "missing required fields")
	}
}

func TestVerifyEndpointAllowsTokenHolder(t *testing.T) {
	router := newTestRouter(t, &stubResolver{address: "0x123"}, &stubChecker{balance: big.NewInt(1)})

	issued := performIssue(t, router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate", verifyBody(t, issued.AccessKey)))

	assert.Equal(t, http.StatusOK, recorder.Code)

	decision := &gate.Decision{}
	err := json.Unmarshal(recorder.Body.Bytes(), decision)
	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestVerifyEndpointDeniesZeroBalance(t *testing.T) {
	router := newTestRouter(t, &stubResolver{address: "0x123"}, &stubChecker{balance: big.NewInt(0)})

	issued := performIssue(t, router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate", verifyBody(t, issued.AccessKey)))

	assert.Equal(t, http.StatusForbidden, recorder.Code)

	decision := &gate.Decision{}
	err := json.Unmarshal(recorder.Body.Bytes(), decision)
	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, gate.ReasonNotOwned, decision.Reason)
}

func TestVerifyEndpointRejectsFabricatedKey(t *testing.T) {
	router := newTestRouter(t, &stubResolver{address: "0x123"}, &stubChecker{balance: big.NewInt(1)})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate", verifyBody(t, "fabricated-key")))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestVerifyEndpointRejectsUnauthenticated(t *testing.T) {
	router := newTestRouter(t, &stubResolver{address: ""}, &stubChecker{balance: big.NewInt(1)})

	issued := performIssue(t, router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate", verifyBody(t, issued.AccessKey)))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestVerifyEndpointReportsChainErrorAsRetryable(t *testing.T) {
	router := newTestRouter(t, &stubResolver{address: "0x123"}, &stubChecker{err: errorcode.ErrorChainUnreachable})

	issued := performIssue(t, router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate", verifyBody(t, issued.AccessKey)))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	decision := &gate.Decision{}
	err := json.Unmarshal(recorder.Body.Bytes(), decision)
	assert.NoError(t, err)
	assert.Equal(t, gate.ReasonChainError, decision.Reason)
}

func TestVerifyEndpointRejectsEmptyContext(t *testing.T) {
	router := newTestRouter(t, &stubResolver{address: "0x123"}, &stubChecker{balance: big.NewInt(1)})

	body := fmt.Sprintf(`{"accessKey": %q, "context": {}, "timestamp": %v}`, "some-key", time.Now().UnixMilli())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	decision := &gate.Decision{}
	err := json.Unmarshal(recorder.Body.Bytes(), decision)
	assert.NoError(t, err)
	assert.Contains(t, decision.Message, "missing required fields")
}

func TestRevokeEndpointChecksCallerIdentity(t *testing.T) {
	revokeBody := func() *bytes.Buffer {
		return bytes.NewBufferString(`{"context": {"creatorAddress": "0x456", "tokenId": "1", "contractAddress": "0x789", "chain": 1}, "reason": "leaked key"}`)
	}

	// Anonymous caller
	router := newTestRouter(t, &stubResolver{address: ""}, &stubChecker{balance: big.NewInt(1)})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate/revoke", revokeBody()))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Authenticated caller who is not the creator
	router = newTestRouter(t, &stubResolver{address: "0x123"}, &stubChecker{balance: big.NewInt(1)})
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate/revoke", revokeBody()))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// The creator, but no database behind the denylist
	router = newTestRouter(t, &stubResolver{address: "0x456"}, &stubChecker{balance: big.NewInt(1)})
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate/revoke", revokeBody()))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestVerifyEndpointRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(t, &stubResolver{address: "0x123"}, &stubChecker{balance: big.NewInt(1)})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/token-gate", bytes.NewBufferString("{not json")))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
