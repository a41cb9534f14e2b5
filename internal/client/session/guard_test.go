package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state State
		path  string
		want  Decision
	}{
		{
			name:  "authenticated renders the view",
			state: StateAuthenticated,
			path:  "/watchlist",
			want:  Decision{Action: ActionAllow},
		},
		{
			name:  "uninitialized waits",
			state: StateUninitialized,
			path:  "/watchlist",
			want:  Decision{Action: ActionLoading},
		},
		{
			name:  "verifying waits, never assumes the outcome",
			state: StateVerifying,
			path:  "/watchlist",
			want:  Decision{Action: ActionLoading},
		},
		{
			name:  "anonymous redirects preserving the requested path",
			state: StateAnonymous,
			path:  "/watchlist",
			want:  Decision{Action: ActionRedirect, RedirectTo: LoginPath, ReturnTo: "/watchlist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.path))
		})
	}
}
