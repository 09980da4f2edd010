package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("role_changed", func(t *testing.T) {
		subject, html, err := Render(NotificationJob{
			To:   "bob@example.com",
			Kind: KindRoleChanged,
			Data: map[string]string{"DisplayName": "bob", "Role": "admin"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Your QuantDeck role has changed", subject)
		assert.Contains(t, html, "bob")
		assert.Contains(t, html, "<b>admin</b>")
	})

	t.Run("strategy_kinds_include_name", func(t *testing.T) {
		for _, kind := range []string{KindStrategyApproved, KindStrategyRejected} {
			_, html, err := Render(NotificationJob{
				Kind: kind,
				Data: map[string]string{"DisplayName": "bob", "StrategyName": "mean reversion"},
			})
			require.NoError(t, err)
			assert.Contains(t, html, "mean reversion")
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		_, _, err := Render(NotificationJob{Kind: "password_reset"})
		assert.Error(t, err)
	})

	t.Run("html_is_escaped", func(t *testing.T) {
		_, html, err := Render(NotificationJob{
			Kind: KindWelcome,
			Data: map[string]string{"DisplayName": "<script>alert(1)</script>"},
		})
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})
}
