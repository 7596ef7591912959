package services

import (
	"testing"

	"github.com/sachinsingh018/networkqy/config"
	"github.com/sachinsingh018/networkqy/utils"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	m.Run()
}

func TestEnqueueDropsWhenQueueFullWithoutBlocking(t *testing.T) {
	// Worker not started, so the single queue slot stays occupied.
	m := NewMailer(config.Config{MailQueueSize: 1})

	assert.True(t, m.Enqueue("a@example.com", "first", "<p>hi</p>"))
	assert.False(t, m.Enqueue("b@example.com", "second", "<p>hi</p>"),
		"a full queue must drop, not block the caller")
}

func TestStartStopLifecycle(t *testing.T) {
	// No SMTP host configured: jobs are logged and skipped, which is the
	// development behavior.
	m := NewMailer(config.Config{MailQueueSize: 4})
	m.Start()

	assert.True(t, m.Enqueue("a@example.com", "welcome", "<p>hi</p>"))
	m.Stop()
}

func TestQueueSizeFallback(t *testing.T) {
	m := NewMailer(config.Config{})
	assert.Equal(t, 256, cap(m.queue))
}
