package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainLogbook "github.com/lineoa/line-msg-api/domains/logbook"
)

func TestTimestamp_FixedOffsetFormatting(t *testing.T) {
	client := &Client{
		loc: time.FixedZone("UTC+7", 7*3600),
		now: func() time.Time {
			// 2022-07-19 11:22:47 UTC == 18:22:47 at UTC+7.
			return time.Date(2022, 7, 19, 11, 22, 47, 0, time.UTC)
		},
	}

	assert.Equal(t, "2022-07-19 18:22:47", client.timestamp())
}

func TestTimestamp_MidnightRollover(t *testing.T) {
	client := &Client{
		loc: time.FixedZone("UTC+7", 7*3600),
		now: func() time.Time {
			return time.Date(2022, 7, 19, 19, 30, 0, 0, time.UTC)
		},
	}

	assert.Equal(t, "2022-07-20 02:30:00", client.timestamp())
}

func TestAppend_UnconfiguredIsSilentNoOp(t *testing.T) {
	client := &Client{
		loc: time.FixedZone("UTC+7", 7*3600),
		now: time.Now,
	}

	assert.False(t, client.Configured())

	// Must not panic or error out; the contract is warn-and-continue.
	client.Append(context.Background(), domainLogbook.Row{
		UserID:    "U1",
		Content:   "hello",
		Direction: domainLogbook.DirectionIncoming,
	})
	client.AppendManual(context.Background(), "U1", "hello")
}
