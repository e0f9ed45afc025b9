package accesskey

import (
	"crypto/hmac"
	"crypto/sha256"
	"math/big"
	"strconv"
	"time"

	"github.com/creativeplatform/tokengate/pkg/models/gate"
	"github.com/pkg/errors"
)

const (
	// DefaultWindowSeconds is the default time-bucket width. Shortening it
	// increases revocation granularity at the cost of more frequent re-issuance.
	DefaultWindowSeconds = 3600

	// keyDisplayLength is the fixed length of a rendered access key.
	keyDisplayLength = 32
)

// A Clock tells the codec the current time. The server clock is the only
// authority on time buckets; client-supplied timestamps never participate.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by the real time.
func SystemClock() Clock {
	return systemClock{}
}

// A Codec derives and verifies access keys for gating contexts. A key is
// HMAC-SHA256 over the canonical context and the current time bucket, rendered
// in base62 and truncated to a fixed display length. The key binds the content
// context only; it never embeds the viewer's wallet address.
type Codec struct {
	secret        []byte
	windowSeconds int64
	clock         Clock
}

// NewCodec constructs a Codec. The secret is required and read-only after
// startup; an empty secret is a configuration error, never a per-request one.
// A non-positive windowSeconds falls back to DefaultWindowSeconds and a nil
// clock falls back to the system clock.
func NewCodec(secret []byte, windowSeconds int, clock Clock) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("the access key secret must not be empty")
	}

	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}

	if clock == nil {
		clock = SystemClock()
	}

	return &Codec{
		secret:        secret,
		windowSeconds: int64(windowSeconds),
		clock:         clock,
	}, nil
}

// Derive computes the access key for the context in the current time bucket.
// Two calls with an identical context within one bucket yield the same key;
// changing any context field changes the key.
func (c *Codec) Derive(ctx *gate.Context) (string, error) {
	canonical, err := CanonicalizeContext(ctx)
	if err != nil {
		return "", err
	}

	return c.deriveForBucket(canonical, c.currentBucket()), nil
}

// Verify recomputes the expected key for the current bucket and, to tolerate
// requests that straddle a bucket edge, also for the previous one. It returns
// true if the presented key equals either. The comparisons are constant-time.
func (c *Codec) Verify(ctx *gate.Context, presentedKey string) (bool, error) {
	canonical, err := CanonicalizeContext(ctx)
	if err != nil {
		return false, err
	}

	if presentedKey == "" {
		return false, nil
	}

	bucket := c.currentBucket()
	presented := []byte(presentedKey)
	for _, candidate := range []int64{bucket, bucket - 1} {
		expected := []byte(c.deriveForBucket(canonical, candidate))
		if hmac.Equal(expected, presented) {
			return true, nil
		}
	}

	return false, nil
}

func (c *Codec) currentBucket() int64 {
	return c.clock.Now().Unix() / c.windowSeconds
}

func (c *Codec) deriveForBucket(canonical []byte, bucket int64) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(canonical)
	mac.Write([]byte(contextFieldDelimiter))
	mac.Write([]byte(strconv.FormatInt(bucket, 10)))

	// A 256-bit digest renders to 42-43 base62 digits, then gets cut to the
	// display length. Left-pad first so short digests can't shift the cut.
	rendered := new(big.Int).SetBytes(mac.Sum(nil)).Text(62)
	for len(rendered) < keyDisplayLength {
		rendered = "0" + rendered
	}

	return rendered[:keyDisplayLength]
}
