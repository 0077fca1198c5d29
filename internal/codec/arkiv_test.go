package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiv-network/indexer/internal/domain"
)

func decodeHexForTest(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi := hexVal(s[i*2])
		lo := hexVal(s[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// TestEntityKey_KnownAnswerVectors exercises the two published fixed test
// vectors for entity_key exactly as specified.
func TestEntityKey_KnownAnswerVectors(t *testing.T) {
	vectors := []struct {
		tx      domain.Hash32
		payload []byte
		idx     uint64
		want    domain.Hash32
	}{
		{
			tx:      fixedHash32(t, "296508b5285b8596691435c7089e591d2fad7d3756279820347696cdb09197a4"),
			payload: fixedBytes(t, "74657374"),
			idx:     0,
			want:    fixedHash32(t, "35d1ae22f8813a630b1a4d6b8660113ed226d684511747b35dd764c7f96251c5"),
		},
		{
			tx:      fixedHash32(t, "5f9477df89b0e5649365e0c012670cbcb04bb02766117a4d7f031d10b3234866"),
			payload: fixedBytes(t, "74736574"),
			idx:     1,
			want:    fixedHash32(t, "a659f43417c43e9da5801d9b0ab8680bbe5d5dff4c2094795b7bb58c76fed489"),
		},
	}
	for _, v := range vectors {
		got := EntityKey(v.tx, v.payload, v.idx)
		assert.Equal(t, v.want, got)
	}
}

func fixedHash32(t *testing.T, hex string) domain.Hash32 {
	t.Helper()
	b := fixedBytes(t, hex)
	var h domain.Hash32
	require.Len(t, b, 32)
	copy(h[:], b)
	return h
}

func fixedBytes(t *testing.T, hex string) []byte {
	t.Helper()
	b, err := decodeHexForTest(hex)
	require.NoError(t, err)
	return b
}

func TestSourceHash_Deterministic(t *testing.T) {
	blockHash := fixedHash32(t, "0000000000000000000000000000000000000000000000000000000000000001")
	a := SourceHash(blockHash, 0)
	b := SourceHash(blockHash, 0)
	assert.Equal(t, a, b)

	c := SourceHash(blockHash, 1)
	assert.NotEqual(t, a, c)
}

func TestBlockTimestampSec_Forward(t *testing.T) {
	ref := time.Unix(1000, 0).UTC()
	sec, ok := BlockTimestampSec(110, 100, ref)
	require.True(t, ok)
	assert.Equal(t, uint64(1000+10*uint64(secsPerBlock)), sec)
}

func TestBlockTimestampSec_Backward(t *testing.T) {
	ref := time.Unix(1000, 0).UTC()
	sec, ok := BlockTimestampSec(90, 100, ref)
	require.True(t, ok)
	assert.Equal(t, uint64(1000-10*uint64(secsPerBlock)), sec)
}

func TestBlockTimestampSec_BackwardUnderflow(t *testing.T) {
	ref := time.Unix(5, 0).UTC()
	_, ok := BlockTimestampSec(0, 1000, ref)
	assert.False(t, ok)
}

func TestBlockTimestampSec_OverflowOnMaxTarget(t *testing.T) {
	ref := time.Unix(0, 0).UTC()
	_, ok := BlockTimestampSec(^domain.BlockNumber(0), 0, ref)
	assert.False(t, ok)
}

func TestBlockTimestamp_AgreesWithSec(t *testing.T) {
	ref := time.Unix(2000, 0).UTC()
	ts, ok1 := BlockTimestamp(105, 100, ref)
	sec, ok2 := BlockTimestampSec(105, 100, ref)
	require.Equal(t, ok1, ok2)
	require.True(t, ok1)
	assert.Equal(t, sec, uint64(ts.Unix()))
}

func TestFormatDuration_Zero(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "0s", FormatDuration(900*time.Millisecond))
}

func TestFormatDuration_Seconds(t *testing.T) {
	assert.Equal(t, "1s", FormatDuration(1*time.Second))
}

func TestFormatDuration_Minutes(t *testing.T) {
	assert.Equal(t, "1m", FormatDuration(60*time.Second))
	assert.Equal(t, "1m 1s", FormatDuration(61*time.Second))
}

func TestFormatDuration_Hours(t *testing.T) {
	assert.Equal(t, "1h", FormatDuration(3600*time.Second))
	assert.Equal(t, "1h 1m 1s", FormatDuration(3661*time.Second))
}

func TestFormatDuration_Days(t *testing.T) {
	assert.Equal(t, "1d", FormatDuration(86400*time.Second))
	assert.Equal(t, "1d 1h 1m 1s", FormatDuration(90061*time.Second))
}
