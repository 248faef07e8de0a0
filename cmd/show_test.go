package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/doomlearn/internal"
)

func TestFeedCommand(t *testing.T) {
	env := setupTest(t)
	env.mustRun(t, "new", "--topic", "hash maps", "--count", "2")

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name:    "without session ID",
			args:    []string{"feed"},
			wantErr: true,
		},
		{
			name: "from history",
			args: []string{"feed", "s1"},
			want: []string{"session: s1", "Title p1", "Title p2", "[Question]"},
		},
		{
			name: "show alias with comments",
			args: []string{"show", "s1", "--comments"},
			want: []string{"u/commenter", "Great point"},
		},
		{
			name:    "unknown session",
			args:    []string{"feed", "missing"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestFeedCommand_FromBackend(t *testing.T) {
	env := setupTest(t)
	env.backend.GetSessionFn = func(ctx context.Context, id string) (*internal.Session, error) {
		s := internal.CreateTestSession(id)
		s.Platform = internal.PlatformTwitter
		for i := range s.Posts {
			s.Posts[i].Platform = internal.PlatformTwitter
		}
		return s, nil
	}

	out := env.mustRun(t, "feed", "remote")
	for _, want := range []string{"twitter feed · 2 posts", "How do hash maps work?", "replies"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFeedCommand_BackendError(t *testing.T) {
	env := setupTest(t)
	env.backend.GetSessionFn = func(context.Context, string) (*internal.Session, error) {
		return nil, &internal.APIError{StatusCode: 500, Message: "database offline"}
	}

	_, err := env.run(t, "feed", "remote")
	if !errors.Is(err, internal.ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
	if !strings.Contains(err.Error(), "database offline") {
		t.Errorf("error %q should carry the backend message", err)
	}
}
