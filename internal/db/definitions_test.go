package db

import (
	"testing"

	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

func TestEncodeDecodeWeights(t *testing.T) {
	w := &profile.GroupVector{profile.Clubber: 0.8, profile.SoundExplorer: 0.3}

	data, err := encodeWeights(w)
	if err != nil {
		t.Fatalf("encodeWeights() error = %v", err)
	}
	got, err := decodeWeights(data)
	if err != nil {
		t.Fatalf("decodeWeights() error = %v", err)
	}
	if got == nil || *got != *w {
		t.Errorf("decodeWeights(encodeWeights(w)) = %v, want %v", got, w)
	}

	if data, err := encodeWeights(nil); err != nil || data != nil {
		t.Errorf("encodeWeights(nil) = %q, %v; want nil, nil", data, err)
	}
}

func TestDecodeWeights(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantNil bool
		want    profile.GroupVector
		wantErr bool
	}{
		{name: "empty", data: "", wantNil: true},
		{name: "json null", data: "null", wantNil: true},
		{name: "labels", data: `{"클러버": 0.5, "칠 가이": 0.2}`, want: profile.GroupVector{profile.ChillGuy: 0.2, profile.Clubber: 0.5}},
		{name: "partial slugs", data: `{"gourmet": 1}`, want: profile.GroupVector{profile.Gourmet: 1}},
		{name: "unknown group", data: `{"metalhead": 1}`, wantErr: true},
		{name: "negative weight", data: `{"gourmet": -0.1}`, wantErr: true},
		{name: "not an object", data: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeWeights([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeWeights() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("decodeWeights() = %v, want nil", got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("decodeWeights() = %v, want %v", got, tt.want)
			}
		})
	}
}
