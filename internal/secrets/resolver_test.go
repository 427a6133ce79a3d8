package secrets

import (
	"errors"
	"strings"
	"testing"
)

func newTestStore() *Store {
	return NewStore(map[string]Table{
		"facebook": {
			Default: "default-secret-0123456789",
			ByID: map[string]string{
				"page-42": "override-secret-for-page-42",
			},
		},
		"shortsecrets": {
			Default: "tooshort",
			ByID: map[string]string{
				"long": strings.Repeat("x", 200),
			},
		},
		"emptydefault": {
			ByID: map[string]string{
				"known": "known-id-secret-01234567",
			},
		},
	})
}

func TestResolve(t *testing.T) {
	s := newTestStore()

	tests := []struct {
		name     string
		receiver string
		id       string
		want     string
		wantErr  error
	}{
		{
			name:     "default secret for empty id",
			receiver: "facebook",
			id:       "",
			want:     "default-secret-0123456789",
		},
		{
			name:     "default secret for unknown id",
			receiver: "facebook",
			id:       "page-99",
			want:     "default-secret-0123456789",
		},
		{
			name:     "per-id override wins",
			receiver: "facebook",
			id:       "page-42",
			want:     "override-secret-for-page-42",
		},
		{
			name:     "unknown receiver",
			receiver: "github",
			id:       "",
			wantErr:  ErrNotConfigured,
		},
		{
			name:     "no default and unknown id",
			receiver: "emptydefault",
			id:       "other",
			wantErr:  ErrNotConfigured,
		},
		{
			name:     "secret below minimum length",
			receiver: "shortsecrets",
			id:       "",
			wantErr:  ErrOutOfRange,
		},
		{
			name:     "secret above maximum length",
			receiver: "shortsecrets",
			id:       "long",
			wantErr:  ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.receiver, tt.id, 16, 128)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveBoundsAreInclusive(t *testing.T) {
	min16 := strings.Repeat("a", 16)
	max128 := strings.Repeat("b", 128)
	s := NewStore(map[string]Table{
		"edge": {
			Default: min16,
			ByID:    map[string]string{"max": max128},
		},
	})

	if _, err := s.Resolve("edge", "", 16, 128); err != nil {
		t.Errorf("16-char secret should be accepted: %v", err)
	}
	if _, err := s.Resolve("edge", "max", 16, 128); err != nil {
		t.Errorf("128-char secret should be accepted: %v", err)
	}
}
