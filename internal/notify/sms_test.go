package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"maasai-craft/internal/logger"
)

func TestSMSStub_Message(t *testing.T) {
	s := NewSMSStub(logger.Nop())

	assert.Equal(t, "Payment of KSh 5,300 successful. Ref: MC-1-2", s.Message(5300, "MC-1-2"))
	assert.Equal(t, "Payment of KSh 800 successful. Ref: MC-3-4", s.Message(800, "MC-3-4"))
	assert.Equal(t, "Payment of KSh 1,234,567 successful. Ref: X", s.Message(1234567, "X"))
}

func TestSMSStub_NotifyLogsAndSucceeds(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSMSStub(logger.New(logger.Options{ServiceName: "test", Output: buf}))

	ok := s.Notify(context.Background(), "+254712345678", 7500, "MC-5-6")

	assert.True(t, ok)
	assert.Contains(t, buf.String(), `"phone":"+254712345678"`)
	assert.Contains(t, buf.String(), `"tx_ref":"MC-5-6"`)
	assert.Contains(t, buf.String(), "KSh 7,500")
}

var _ Notifier = (*SMSStub)(nil)
