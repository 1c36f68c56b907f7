package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title  string   `json:"title" validate:"required"`
	Genre  []string `json:"genre" validate:"required,min=1,dive,required"`
	Rating int      `json:"rating" validate:"min=1,max=5"`
	Email  string   `json:"email" validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{
			name: "valid",
			in:   sample{Title: "Dune", Genre: []string{"Sci-Fi"}, Rating: 4},
		},
		{
			name:    "missing title",
			in:      sample{Genre: []string{"Sci-Fi"}, Rating: 4},
			wantErr: "title is required",
		},
		{
			name:    "rating too high",
			in:      sample{Title: "Dune", Genre: []string{"Sci-Fi"}, Rating: 6},
			wantErr: "rating must be at most 5",
		},
		{
			name:    "bad email and empty genre",
			in:      sample{Title: "Dune", Genre: []string{}, Rating: 1, Email: "nope"},
			wantErr: "genre must have at least 1 item(s); email must be a valid email",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
