package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestDisplayNameFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		user tgbotapi.User
		want string
	}{
		{"first name wins", tgbotapi.User{FirstName: "Shul", UserName: "theshul"}, "Shul"},
		{"username when no first name", tgbotapi.User{UserName: "theshul"}, "theshul"},
		{"placeholder when neither", tgbotapi.User{}, "Unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := displayName(&tc.user); got != tc.want {
				t.Errorf("displayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
