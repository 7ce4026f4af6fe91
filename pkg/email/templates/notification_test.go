package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/email/templates"
)

func TestNotification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        templates.NotificationData
		contains    []string
		notContains []string
	}{
		{
			name: "full",
			data: templates.NotificationData{
				RecipientName: "Olivia",
				Title:         "Delivery completed",
				Message:       "Line one\nLine two",
				ActionURL:     "https://app.example.com/client/deliveries/d-1",
				ProductName:   "Acme CS",
			},
			contains: []string{
				"<title>Delivery completed</title>",
				"Hello, Olivia!",
				"Line one<br>Line two",
				`href="https://app.example.com/client/deliveries/d-1"`,
				"Open in Acme CS",
			},
		},
		{
			name:        "defaults",
			data:        templates.NotificationData{Title: "Hi", Message: "There"},
			contains:    []string{"Hello,", "Dashboard 360"},
			notContains: []string{"<a href"},
		},
		{
			name: "escapes user content",
			data: templates.NotificationData{
				RecipientName: "<b>Eve</b>",
				Title:         "Hi",
				Message:       `<script>alert("x")</script>`,
				ActionURL:     "https://example.com",
				ActionLabel:   "Go & see",
			},
			contains:    []string{"&lt;script&gt;", "&lt;b&gt;Eve&lt;/b&gt;", "Go &amp; see"},
			notContains: []string{"<script>", "<b>Eve</b>"},
		},
		{
			name: "unsafe link is neutralised",
			data: templates.NotificationData{
				Title: "Hi", Message: "There", ActionURL: "javascript:alert(1)",
			},
			notContains: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html, err := templates.Render(context.Background(), templates.Notification(tt.data))
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, html, s)
			}
		})
	}
}

func TestNotification_LineBreaks(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), templates.Notification(templates.NotificationData{
		Title:   "Hi",
		Message: "one\r\ntwo\nthree",
	}))
	require.NoError(t, err)
	assert.Contains(t, html, "one<br>two<br>three")
	assert.NotContains(t, html, "\r")
}

func TestNotification_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := templates.Render(ctx, templates.Notification(templates.NotificationData{Title: "Hi"}))
	assert.ErrorIs(t, err, context.Canceled)
}
