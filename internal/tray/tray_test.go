package tray

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/mudra/internal/app"
)

func TestTray_Toggle(t *testing.T) {
	tr := New()
	assert.True(t, tr.IsEnabled())

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	assert.Equal(t, []bool{false, true}, got)
	assert.True(t, tr.IsEnabled())
}

func TestTray_Preview(t *testing.T) {
	tr := New()
	tr.handlePreview() // no callback set

	called := false
	tr.OnPreview(func() { called = true })
	tr.handlePreview()
	assert.True(t, called)
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "● Enabled", toggleTitle(true))
	assert.Equal(t, "○ Disabled", toggleTitle(false))
	assert.Equal(t, "Hand: none", lastTitle("Hand", ""))
	assert.Equal(t, "Face: 😄 Smiling", lastTitle("Face", "😄 Smiling"))
}

func TestTray_Follow(t *testing.T) {
	tr := New()

	results := make(chan app.Result, 1)
	results <- app.Result{}
	close(results)

	done := make(chan struct{})
	go func() {
		// menu items are not built outside Run, so SetLast is a no-op here
		tr.Follow(context.Background(), results)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after the channel closed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr.Follow(ctx, make(chan app.Result))
}
